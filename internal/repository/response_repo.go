package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// MongoResponseRepository implements ResponseRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoResponseRepository struct {
	collection *mongo.Collection
}

// NewMongoResponseRepository creates a new MongoDB response repository
func NewMongoResponseRepository(db *mongo.Database) *MongoResponseRepository {
	return &MongoResponseRepository{
		collection: db.Collection(models.Response{}.CollectionName()),
	}
}

// Create creates a new response
func (r *MongoResponseRepository) Create(ctx context.Context, response *models.Response) error {
	response.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, response)
	return err
}

// GetByID finds a response by ID
func (r *MongoResponseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Response, error) {
	var response models.Response
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// surveyFilter builds the filter for survey-scoped queries
func surveyFilter(surveyID primitive.ObjectID, versionID *primitive.ObjectID) bson.M {
	filter := bson.M{"survey_id": surveyID}
	if versionID != nil {
		filter["score_config_version_id"] = *versionID
	}
	return filter
}

// ListBySurvey lists responses for a survey with pagination
func (r *MongoResponseRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.Response], error) {
	filter := surveyFilter(surveyID, versionID)

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

	var responses []models.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}

	totalPages := int(total) / opts.Limit
	if int(total)%opts.Limit > 0 {
		totalPages++
	}

	return &PaginatedResult[models.Response]{
		Items:      responses,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// ListAllBySurvey loads every response for a survey
// #IMPLEMENTATION_DECISION: Analytics always recomputes over the complete
// response set, so this deliberately skips pagination; per-survey volumes
// are bounded by the delivery service
func (r *MongoResponseRepository) ListAllBySurvey(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) ([]models.Response, error) {
	filter := surveyFilter(surveyID, versionID)

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []models.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// CountBySurvey counts responses for a survey
func (r *MongoResponseRepository) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"survey_id": surveyID})
}

// Delete removes a response
func (r *MongoResponseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrResponseNotFound
	}
	return nil
}

// Ensure MongoResponseRepository implements ResponseRepository
var _ ResponseRepository = (*MongoResponseRepository)(nil)
