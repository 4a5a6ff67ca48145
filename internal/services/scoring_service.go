package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/cache"
	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/repository"
	"github.com/formpulse-tools/insights_backend/internal/scoring"
)

// ScoringService exposes per-response scoring views and response
// administration
// #INTEGRATION_POINT: Used by the scoring handler for traces, score views,
// response listing and deletion
type ScoringService interface {
	// GetTrace builds the full scoring decomposition for one response
	GetTrace(ctx context.Context, surveyID, responseID primitive.ObjectID) (*scoring.ScoringTrace, error)

	// GetScore builds the respondent-facing score view for one response
	GetScore(ctx context.Context, surveyID, responseID primitive.ObjectID) (*scoring.ScoreResult, error)

	// ListResponses lists a survey's responses with pagination
	ListResponses(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error)

	// DeleteResponse removes a response, writes an audit entry and
	// invalidates the survey's cached analytics
	DeleteResponse(ctx context.Context, surveyID, responseID primitive.ObjectID, actor, ipAddress, requestID string) error

	// ListVersions lists the survey's scoring configuration versions,
	// newest first
	ListVersions(ctx context.Context, surveyID primitive.ObjectID) ([]models.ScoreConfigVersion, error)
}

// scoringService implements ScoringService
type scoringService struct {
	surveyRepo   repository.SurveyRepository
	responseRepo repository.ResponseRepository
	versionRepo  repository.VersionRepository
	auditService AuditService
	cache        cache.AnalyticsCache
}

// NewScoringService creates a new scoring service
func NewScoringService(
	surveyRepo repository.SurveyRepository,
	responseRepo repository.ResponseRepository,
	versionRepo repository.VersionRepository,
	auditService AuditService,
	analyticsCache cache.AnalyticsCache,
) ScoringService {
	return &scoringService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		versionRepo:  versionRepo,
		auditService: auditService,
		cache:        analyticsCache,
	}
}

// getSurveyResponse loads a survey and one of its responses, verifying the
// response actually belongs to the survey
func (s *scoringService) getSurveyResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*models.Survey, *models.Response, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, models.ErrSurveyNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to get survey: %w", err)
	}

	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		if errors.Is(err, models.ErrResponseNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to get response: %w", err)
	}

	if response.SurveyID != surveyID {
		return nil, nil, models.ErrResponseSurveyMismatch
	}

	return survey, response, nil
}

// GetTrace builds the full scoring decomposition for one response
func (s *scoringService) GetTrace(ctx context.Context, surveyID, responseID primitive.ObjectID) (*scoring.ScoringTrace, error) {
	survey, response, err := s.getSurveyResponse(ctx, surveyID, responseID)
	if err != nil {
		return nil, err
	}
	return scoring.BuildTrace(survey, response), nil
}

// GetScore builds the respondent-facing score view for one response
func (s *scoringService) GetScore(ctx context.Context, surveyID, responseID primitive.ObjectID) (*scoring.ScoreResult, error) {
	survey, response, err := s.getSurveyResponse(ctx, surveyID, responseID)
	if err != nil {
		return nil, err
	}
	return scoring.BuildScoreResult(survey, response), nil
}

// ListResponses lists a survey's responses with pagination
func (s *scoringService) ListResponses(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error) {
	if _, err := s.surveyRepo.GetByID(ctx, surveyID); err != nil {
		if errors.Is(err, models.ErrSurveyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	result, err := s.responseRepo.ListBySurvey(ctx, surveyID, versionID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return result, nil
}

// DeleteResponse removes a response, writes an audit entry and invalidates
// the survey's cached analytics
// #BUSINESS_RULE: Deletion is the only mutation this service performs on
// response data; every deletion leaves an audit trail
func (s *scoringService) DeleteResponse(ctx context.Context, surveyID, responseID primitive.ObjectID, actor, ipAddress, requestID string) error {
	_, response, err := s.getSurveyResponse(ctx, surveyID, responseID)
	if err != nil {
		return err
	}

	if err := s.responseRepo.Delete(ctx, response.ID); err != nil {
		return fmt.Errorf("failed to delete response: %w", err)
	}

	s.auditService.LogAsync(AuditEntry{
		Actor:        actor,
		Action:       models.AuditActionDelete,
		ResourceType: models.ResourceTypeResponse,
		ResourceID:   response.ID,
		Description:  fmt.Sprintf("Deleted response %s from survey %s", response.ID.Hex(), surveyID.Hex()),
		IPAddress:    ipAddress,
		RequestID:    requestID,
	})

	if err := s.cache.InvalidateSurvey(ctx, surveyID.Hex()); err != nil {
		log.Printf("Failed to invalidate analytics cache for survey %s: %v", surveyID.Hex(), err)
	}

	return nil
}

// ListVersions lists the survey's scoring configuration versions, newest first
func (s *scoringService) ListVersions(ctx context.Context, surveyID primitive.ObjectID) ([]models.ScoreConfigVersion, error) {
	if _, err := s.surveyRepo.GetByID(ctx, surveyID); err != nil {
		if errors.Is(err, models.ErrSurveyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	versions, err := s.versionRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// Ensure scoringService implements ScoringService
var _ ScoringService = (*scoringService)(nil)
