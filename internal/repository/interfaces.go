// Package repository defines interfaces for data access and their MongoDB implementations
// #ORM_PATTERN: Repository pattern with interfaces for testability and abstraction
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// PaginationOptions contains pagination parameters
type PaginationOptions struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir int // 1 for ascending, -1 for descending
}

// DefaultPaginationOptions returns default pagination settings
// #DATA_ASSUMPTION: Pagination defaults to 20 items per page
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{
		Page:    1,
		Limit:   20,
		SortBy:  "created_at",
		SortDir: -1,
	}
}

// PaginatedResult contains paginated query results
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// SurveyRepository defines operations for surveys
// #QUERY_INTERFACE: Survey data access patterns. Surveys are authored in the
// builder service; this service creates them only when seeding.
type SurveyRepository interface {
	// Create creates a new survey
	Create(ctx context.Context, survey *models.Survey) error

	// GetByID finds a survey by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)

	// List lists surveys with optional status filtering and pagination
	List(ctx context.Context, status *models.SurveyStatus, opts PaginationOptions) (*PaginatedResult[models.Survey], error)

	// Count counts surveys with optional status filtering
	Count(ctx context.Context, status *models.SurveyStatus) (int64, error)
}

// ResponseRepository defines operations for survey responses
// #QUERY_INTERFACE: Response data access patterns. Responses are written by
// the delivery service; this service reads them and exposes admin deletion.
type ResponseRepository interface {
	// Create creates a new response
	Create(ctx context.Context, response *models.Response) error

	// GetByID finds a response by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Response, error)

	// ListBySurvey lists responses for a survey with pagination. A non-nil
	// versionID restricts the listing to responses tagged with that
	// scoring configuration version.
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.Response], error)

	// ListAllBySurvey loads every response for a survey, optionally
	// restricted to one scoring configuration version. Analytics
	// recomputes from the full response set, so no pagination here.
	ListAllBySurvey(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) ([]models.Response, error)

	// CountBySurvey counts responses for a survey
	CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)

	// Delete removes a response
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// VersionRepository defines operations for scoring configuration versions
// #QUERY_INTERFACE: Version data access patterns
type VersionRepository interface {
	// Create creates a new version record
	Create(ctx context.Context, version *models.ScoreConfigVersion) error

	// GetByID finds a version record by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ScoreConfigVersion, error)

	// ListBySurvey lists version records for a survey, newest first
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.ScoreConfigVersion, error)
}
