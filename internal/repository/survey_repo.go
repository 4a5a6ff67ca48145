package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// MongoSurveyRepository implements SurveyRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoSurveyRepository struct {
	collection *mongo.Collection
}

// NewMongoSurveyRepository creates a new MongoDB survey repository
func NewMongoSurveyRepository(db *mongo.Database) *MongoSurveyRepository {
	return &MongoSurveyRepository{
		collection: db.Collection(models.Survey{}.CollectionName()),
	}
}

// Create creates a new survey
func (r *MongoSurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	survey.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, survey)
	return err
}

// GetByID finds a survey by ID
func (r *MongoSurveyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	var survey models.Survey
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// List lists surveys with optional status filtering and pagination
func (r *MongoSurveyRepository) List(ctx context.Context, status *models.SurveyStatus, opts PaginationOptions) (*PaginatedResult[models.Survey], error) {
	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}

	// Count total
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Apply pagination
	skip := int64((opts.Page - 1) * opts.Limit)
	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.D{{Key: opts.SortBy, Value: opts.SortDir}})

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []models.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}

	totalPages := int(total) / opts.Limit
	if int(total)%opts.Limit > 0 {
		totalPages++
	}

	return &PaginatedResult[models.Survey]{
		Items:      surveys,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// Count counts surveys with optional status filtering
func (r *MongoSurveyRepository) Count(ctx context.Context, status *models.SurveyStatus) (int64, error) {
	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}
	return r.collection.CountDocuments(ctx, filter)
}

// Ensure MongoSurveyRepository implements SurveyRepository
var _ SurveyRepository = (*MongoSurveyRepository)(nil)
