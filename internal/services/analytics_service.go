package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/analytics"
	"github.com/formpulse-tools/insights_backend/internal/cache"
	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/repository"
)

// AnalyticsService computes survey-wide analytics views. Every view is
// recomputed from the stored responses on each call; the cache layer only
// memoizes the serialized result.
// #INTEGRATION_POINT: Used by the analytics handler, one method per endpoint
type AnalyticsService interface {
	// GetParticipation computes participation metrics for a survey
	GetParticipation(ctx context.Context, surveyID primitive.ObjectID) (*analytics.ParticipationMetrics, error)

	// GetDistribution computes the overall index score distribution
	GetDistribution(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.IndexDistribution, error)

	// GetBandDistribution computes the fixed index band distribution
	GetBandDistribution(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.BandDistribution, error)

	// GetQuestionSummaries computes per-question answer summaries
	GetQuestionSummaries(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.QuestionAnalytics, error)

	// GetManagerRollups computes per-manager response rollups
	GetManagerRollups(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.ManagerAnalytics, error)

	// GetTrend computes the index score trend over calendar time
	GetTrend(ctx context.Context, surveyID primitive.ObjectID, granularity string, versionID *primitive.ObjectID) (*analytics.IndexTrend, error)

	// GetVersionTrends computes one trend point per scoring configuration version
	GetVersionTrends(ctx context.Context, surveyID primitive.ObjectID) (*analytics.VersionTrends, error)

	// GetComparison compares scores between two scoring configuration versions
	GetComparison(ctx context.Context, surveyID, beforeID, afterID primitive.ObjectID) (*analytics.BeforeAfterComparison, error)

	// GetDomainOverview computes the per-category score overview
	GetDomainOverview(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.DomainOverview, error)
}

// analyticsService implements AnalyticsService
type analyticsService struct {
	surveyRepo   repository.SurveyRepository
	responseRepo repository.ResponseRepository
	versionRepo  repository.VersionRepository
	cache        cache.AnalyticsCache
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	surveyRepo repository.SurveyRepository,
	responseRepo repository.ResponseRepository,
	versionRepo repository.VersionRepository,
	analyticsCache cache.AnalyticsCache,
) AnalyticsService {
	return &analyticsService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		versionRepo:  versionRepo,
		cache:        analyticsCache,
	}
}

// load fetches the survey and its responses, optionally filtered to one
// scoring configuration version
func (s *analyticsService) load(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*models.Survey, []models.Response, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, models.ErrSurveyNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to get survey: %w", err)
	}

	responses, err := s.responseRepo.ListAllBySurvey(ctx, surveyID, versionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list responses: %w", err)
	}

	return survey, responses, nil
}

// cacheGet loads a cached view, treating cache failures as misses
func (s *analyticsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("Failed to read analytics cache for %s: %v", key, err)
		return false
	}
	return found
}

// cacheSet stores a computed view, logging failures without surfacing them
func (s *analyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("Failed to cache analytics view %s: %v", key, err)
	}
}

// versionParams returns the cache key params for an optional version filter
func versionParams(versionID *primitive.ObjectID) []string {
	if versionID == nil {
		return nil
	}
	return []string{versionID.Hex()}
}

// GetParticipation computes participation metrics for a survey
func (s *analyticsService) GetParticipation(ctx context.Context, surveyID primitive.ObjectID) (*analytics.ParticipationMetrics, error) {
	key := cache.ViewKey(surveyID.Hex(), "participation")
	var cached analytics.ParticipationMetrics
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, nil)
	if err != nil {
		return nil, err
	}

	result := analytics.ComputeParticipation(survey, responses)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetDistribution computes the overall index score distribution
func (s *analyticsService) GetDistribution(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.IndexDistribution, error) {
	key := cache.ViewKey(surveyID.Hex(), "distribution", versionParams(versionID)...)
	var cached analytics.IndexDistribution
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, versionID)
	if err != nil {
		return nil, err
	}

	result := analytics.ComputeIndexDistribution(survey, responses)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetBandDistribution computes the fixed index band distribution
func (s *analyticsService) GetBandDistribution(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.BandDistribution, error) {
	key := cache.ViewKey(surveyID.Hex(), "bands", versionParams(versionID)...)
	var cached analytics.BandDistribution
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, versionID)
	if err != nil {
		return nil, err
	}

	result := analytics.ComputeBandDistribution(survey, responses)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetQuestionSummaries computes per-question answer summaries
func (s *analyticsService) GetQuestionSummaries(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.QuestionAnalytics, error) {
	key := cache.ViewKey(surveyID.Hex(), "questions", versionParams(versionID)...)
	var cached analytics.QuestionAnalytics
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, versionID)
	if err != nil {
		return nil, err
	}

	result := analytics.ComputeQuestionSummaries(survey, responses)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetManagerRollups computes per-manager response rollups
func (s *analyticsService) GetManagerRollups(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.ManagerAnalytics, error) {
	key := cache.ViewKey(surveyID.Hex(), "managers", versionParams(versionID)...)
	var cached analytics.ManagerAnalytics
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, versionID)
	if err != nil {
		return nil, err
	}

	result := analytics.ComputeManagerRollups(survey, responses)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetTrend computes the index score trend over calendar time
func (s *analyticsService) GetTrend(ctx context.Context, surveyID primitive.ObjectID, granularity string, versionID *primitive.ObjectID) (*analytics.IndexTrend, error) {
	parsed, err := analytics.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}

	params := append([]string{string(parsed)}, versionParams(versionID)...)
	key := cache.ViewKey(surveyID.Hex(), "trend", params...)
	var cached analytics.IndexTrend
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, versionID)
	if err != nil {
		return nil, err
	}

	result := analytics.ComputeIndexTrend(survey, responses, parsed)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetVersionTrends computes one trend point per scoring configuration version
func (s *analyticsService) GetVersionTrends(ctx context.Context, surveyID primitive.ObjectID) (*analytics.VersionTrends, error) {
	key := cache.ViewKey(surveyID.Hex(), "version-trends")
	var cached analytics.VersionTrends
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, nil)
	if err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}

	result := analytics.ComputeVersionTrends(survey, responses, versions)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetComparison compares scores between two scoring configuration versions
// #BUSINESS_RULE: Both versions must exist and belong to the survey
func (s *analyticsService) GetComparison(ctx context.Context, surveyID, beforeID, afterID primitive.ObjectID) (*analytics.BeforeAfterComparison, error) {
	if beforeID == afterID {
		return nil, models.ErrSameVersion
	}

	key := cache.ViewKey(surveyID.Hex(), "comparison", beforeID.Hex(), afterID.Hex())
	var cached analytics.BeforeAfterComparison
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, models.ErrSurveyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	for _, versionID := range []primitive.ObjectID{beforeID, afterID} {
		version, err := s.versionRepo.GetByID(ctx, versionID)
		if err != nil {
			if errors.Is(err, models.ErrVersionNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to get version: %w", err)
		}
		if version.SurveyID != surveyID {
			return nil, models.ErrVersionNotFound
		}
	}

	before, err := s.responseRepo.ListAllBySurvey(ctx, surveyID, &beforeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	after, err := s.responseRepo.ListAllBySurvey(ctx, surveyID, &afterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	result := analytics.CompareVersions(survey, beforeID.Hex(), afterID.Hex(), before, after)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// GetDomainOverview computes the per-category score overview
func (s *analyticsService) GetDomainOverview(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID) (*analytics.DomainOverview, error) {
	key := cache.ViewKey(surveyID.Hex(), "categories", versionParams(versionID)...)
	var cached analytics.DomainOverview
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	survey, responses, err := s.load(ctx, surveyID, versionID)
	if err != nil {
		return nil, err
	}

	result := analytics.ComputeDomainOverview(survey, responses)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// Ensure analyticsService implements AnalyticsService
var _ AnalyticsService = (*analyticsService)(nil)
