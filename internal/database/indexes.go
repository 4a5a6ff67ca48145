package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// IndexManager handles MongoDB index creation and management
// #INDEX_IMPLEMENTATION: All indexes defined per data architecture plan
type IndexManager struct {
	db *mongo.Database
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *mongo.Database) *IndexManager {
	return &IndexManager{db: db}
}

// CreateAllIndexes creates all indexes for all collections
// #MIGRATION_DECISION: Indexes created at application startup if they don't exist
func (m *IndexManager) CreateAllIndexes(ctx context.Context) error {
	log.Println("Creating MongoDB indexes...")

	if err := m.createSurveyIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create survey indexes: %w", err)
	}

	if err := m.createResponseIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create response indexes: %w", err)
	}

	if err := m.createVersionIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create score config version indexes: %w", err)
	}

	if err := m.createAuditLogIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create audit log indexes: %w", err)
	}

	log.Println("All indexes created successfully")
	return nil
}

// createSurveyIndexes creates indexes for the surveys collection
// #INDEX_IMPLEMENTATION: Status filters and recency listing
func (m *IndexManager) createSurveyIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.Survey{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_status_created"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// createResponseIndexes creates indexes for the survey_responses collection
// #INDEX_IMPLEMENTATION: Every analytics query filters by survey_id first;
// version and manager filters ride on top of it
func (m *IndexManager) createResponseIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.Response{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_survey_created"),
		},
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "score_config_version_id", Value: 1}},
			Options: options.Index().SetName("idx_survey_version"),
		},
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "completed_at", Value: 1}},
			Options: options.Index().SetName("idx_survey_completed"),
		},
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "metadata.managerId", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_survey_manager_sparse"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// createVersionIndexes creates indexes for the score_config_versions collection
// #INDEX_IMPLEMENTATION: One version number per survey
func (m *IndexManager) createVersionIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.ScoreConfigVersion{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "version", Value: -1}},
			Options: options.Index().SetUnique(true).SetName("idx_survey_version_unique"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// createAuditLogIndexes creates indexes for the audit_logs collection
// #INDEX_IMPLEMENTATION: Multiple indexes for different audit query patterns
func (m *IndexManager) createAuditLogIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.AuditLog{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "actor", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_actor_created"),
		},
		{
			Keys:    bson.D{{Key: "resource_type", Value: 1}, {Key: "resource_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_resource_created"),
		},
		{
			Keys:    bson.D{{Key: "action", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_action_created"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// DropAllIndexes drops all custom indexes (not the _id index)
func (m *IndexManager) DropAllIndexes(ctx context.Context) error {
	collections := []string{
		models.Survey{}.CollectionName(),
		models.Response{}.CollectionName(),
		models.ScoreConfigVersion{}.CollectionName(),
		models.AuditLog{}.CollectionName(),
	}

	for _, collName := range collections {
		_, err := m.db.Collection(collName).Indexes().DropAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes for %s: %w", collName, err)
		}
	}

	return nil
}

// GetIndexInfo returns information about indexes for a collection
func (m *IndexManager) GetIndexInfo(ctx context.Context, collectionName string) ([]bson.M, error) {
	collection := m.db.Collection(collectionName)

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := cursor.Close(ctx); closeErr != nil {
			// Closing cursor error is logged but not returned
			_ = closeErr
		}
	}()

	var indexes []bson.M
	if err := cursor.All(ctx, &indexes); err != nil {
		return nil, err
	}

	return indexes, nil
}
