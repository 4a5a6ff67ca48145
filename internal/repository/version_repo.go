package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// MongoVersionRepository implements VersionRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoVersionRepository struct {
	collection *mongo.Collection
}

// NewMongoVersionRepository creates a new MongoDB version repository
func NewMongoVersionRepository(db *mongo.Database) *MongoVersionRepository {
	return &MongoVersionRepository{
		collection: db.Collection(models.ScoreConfigVersion{}.CollectionName()),
	}
}

// Create creates a new version record
func (r *MongoVersionRepository) Create(ctx context.Context, version *models.ScoreConfigVersion) error {
	version.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, version)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrInvalidInput
	}
	return err
}

// GetByID finds a version record by ID
func (r *MongoVersionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ScoreConfigVersion, error) {
	var version models.ScoreConfigVersion
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&version)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrVersionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ListBySurvey lists version records for a survey, newest first
func (r *MongoVersionRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.ScoreConfigVersion, error) {
	filter := bson.M{"survey_id": surveyID}
	findOpts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var versions []models.ScoreConfigVersion
	if err := cursor.All(ctx, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Ensure MongoVersionRepository implements VersionRepository
var _ VersionRepository = (*MongoVersionRepository)(nil)
