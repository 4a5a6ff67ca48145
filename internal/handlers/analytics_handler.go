// Package handlers provides HTTP handlers for API endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AnalyticsHandler handles survey analytics endpoints
// #INTEGRATION_POINT: Dashboard frontend consumes these read-only views
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// surveyIDFromPath parses the survey ID path parameter, writing a 400
// response when it is not a valid ObjectID
func surveyIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	surveyID, err := primitive.ObjectIDFromHex(c.Param("surveyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid survey ID",
		})
		return primitive.NilObjectID, false
	}
	return surveyID, true
}

// versionFilterFromQuery parses the optional versionId query parameter
func versionFilterFromQuery(c *gin.Context) (*primitive.ObjectID, bool) {
	versionIDStr := c.Query("versionId")
	if versionIDStr == "" {
		return nil, true
	}

	versionID, err := primitive.ObjectIDFromHex(versionIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid score config version ID",
		})
		return nil, false
	}
	return &versionID, true
}

// respondServiceError maps service errors to HTTP responses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSurveyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Survey not found",
		})
	case errors.Is(err, models.ErrResponseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Response not found",
		})
	case errors.Is(err, models.ErrVersionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Score config version not found",
		})
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

// GetParticipation handles GET /api/v1/surveys/:surveyId/analytics/participation
// @Summary Get participation metrics
// @Description Returns response counts, completion rate, response rate and average duration for a survey
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Success 200 {object} analytics.ParticipationMetrics
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/participation [get]
func (h *AnalyticsHandler) GetParticipation(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetParticipation(c.Request.Context(), surveyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDistribution handles GET /api/v1/surveys/:surveyId/analytics/distribution
// @Summary Get index score distribution
// @Description Returns histogram buckets and summary statistics for overall index scores
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param versionId query string false "Filter by score config version"
// @Success 200 {object} analytics.IndexDistribution
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/distribution [get]
func (h *AnalyticsHandler) GetDistribution(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	versionID, ok := versionFilterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetDistribution(c.Request.Context(), surveyID, versionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBandDistribution handles GET /api/v1/surveys/:surveyId/analytics/bands
// @Summary Get index band distribution
// @Description Returns how many responses fall into each fixed index band
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param versionId query string false "Filter by score config version"
// @Success 200 {object} analytics.BandDistribution
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/bands [get]
func (h *AnalyticsHandler) GetBandDistribution(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	versionID, ok := versionFilterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetBandDistribution(c.Request.Context(), surveyID, versionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetQuestionSummaries handles GET /api/v1/surveys/:surveyId/analytics/questions
// @Summary Get per-question summaries
// @Description Returns answer rates, option counts and score statistics per question
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param versionId query string false "Filter by score config version"
// @Success 200 {object} analytics.QuestionAnalytics
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/questions [get]
func (h *AnalyticsHandler) GetQuestionSummaries(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	versionID, ok := versionFilterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetQuestionSummaries(c.Request.Context(), surveyID, versionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetManagerRollups handles GET /api/v1/surveys/:surveyId/analytics/managers
// @Summary Get per-manager rollups
// @Description Returns response counts and average index scores grouped by manager
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param versionId query string false "Filter by score config version"
// @Success 200 {object} analytics.ManagerAnalytics
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/managers [get]
func (h *AnalyticsHandler) GetManagerRollups(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	versionID, ok := versionFilterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetManagerRollups(c.Request.Context(), surveyID, versionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDomainOverview handles GET /api/v1/surveys/:surveyId/analytics/categories
// @Summary Get per-category overview
// @Description Returns average normalized scores and weighted contribution shares per category
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param versionId query string false "Filter by score config version"
// @Success 200 {object} analytics.DomainOverview
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/categories [get]
func (h *AnalyticsHandler) GetDomainOverview(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	versionID, ok := versionFilterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetDomainOverview(c.Request.Context(), surveyID, versionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTrend handles GET /api/v1/surveys/:surveyId/analytics/trend
// @Summary Get index score trend
// @Description Returns the average index score bucketed over calendar time
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param granularity query string false "Bucket size: daily, weekly or monthly" default(weekly)
// @Param versionId query string false "Filter by score config version"
// @Success 200 {object} analytics.IndexTrend
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/trend [get]
func (h *AnalyticsHandler) GetTrend(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	versionID, ok := versionFilterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetTrend(c.Request.Context(), surveyID, c.Query("granularity"), versionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetVersionTrends handles GET /api/v1/surveys/:surveyId/analytics/version-trends
// @Summary Get per-version trend points
// @Description Returns one aggregate point per score config version, newest first, plus an all-responses point
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Success 200 {object} analytics.VersionTrends
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/version-trends [get]
func (h *AnalyticsHandler) GetVersionTrends(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetVersionTrends(c.Request.Context(), surveyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetComparison handles GET /api/v1/surveys/:surveyId/analytics/comparison
// @Summary Compare two score config versions
// @Description Compares overall and per-category scores between responses tagged with two versions
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param before query string true "Earlier score config version ID"
// @Param after query string true "Later score config version ID"
// @Success 200 {object} analytics.BeforeAfterComparison
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/analytics/comparison [get]
func (h *AnalyticsHandler) GetComparison(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}

	beforeStr := c.Query("before")
	afterStr := c.Query("after")
	if beforeStr == "" || afterStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "before and after version IDs are required",
		})
		return
	}

	beforeID, err := primitive.ObjectIDFromHex(beforeStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid before version ID",
		})
		return
	}

	afterID, err := primitive.ObjectIDFromHex(afterStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid after version ID",
		})
		return
	}

	result, err := h.analyticsService.GetComparison(c.Request.Context(), surveyID, beforeID, afterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers analytics handler routes
// #INTEGRATION_POINT: All analytics routes require authentication
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	analytics := rg.Group("/surveys/:surveyId/analytics")
	analytics.Use(authMiddleware)
	{
		analytics.GET("/participation", h.GetParticipation)
		analytics.GET("/distribution", h.GetDistribution)
		analytics.GET("/bands", h.GetBandDistribution)
		analytics.GET("/questions", h.GetQuestionSummaries)
		analytics.GET("/managers", h.GetManagerRollups)
		analytics.GET("/categories", h.GetDomainOverview)
		analytics.GET("/trend", h.GetTrend)
		analytics.GET("/version-trends", h.GetVersionTrends)
		analytics.GET("/comparison", h.GetComparison)
	}
}
