package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/middleware"
	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/repository"
	"github.com/formpulse-tools/insights_backend/internal/services"
)

const sortDirectionAsc = "asc"

// ScoringHandler handles per-response scoring and response administration
// endpoints
// #INTEGRATION_POINT: Dashboard drill-down views and admin tooling
type ScoringHandler struct {
	scoringService services.ScoringService
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(scoringService services.ScoringService) *ScoringHandler {
	return &ScoringHandler{
		scoringService: scoringService,
	}
}

// responseIDFromPath parses the response ID path parameter, writing a 400
// response when it is not a valid ObjectID
func responseIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	responseID, err := primitive.ObjectIDFromHex(c.Param("responseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid response ID",
		})
		return primitive.NilObjectID, false
	}
	return responseID, true
}

// ResponseSummary represents a response in list results. Answer values are
// deliberately omitted; the trace endpoint exposes per-answer detail.
type ResponseSummary struct {
	ID                   string     `json:"id"`
	SurveyID             string     `json:"survey_id"`
	CompletionPercentage float64    `json:"completion_percentage"`
	AnswerCount          int        `json:"answer_count"`
	ManagerID            string     `json:"manager_id,omitempty"`
	ManagerName          string     `json:"manager_name,omitempty"`
	ScoreConfigVersionID *string    `json:"score_config_version_id,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	TotalDurationMs      *int64     `json:"total_duration_ms,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// PaginatedResponsesResponse represents paginated response summaries
type PaginatedResponsesResponse struct {
	Items      []ResponseSummary `json:"items"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// VersionResponse represents a score config version in API responses
type VersionResponse struct {
	ID           string    `json:"id"`
	SurveyID     string    `json:"survey_id"`
	Version      int       `json:"version"`
	Label        string    `json:"label,omitempty"`
	DisplayLabel string    `json:"display_label"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListResponses handles GET /api/v1/surveys/:surveyId/responses
// @Summary List survey responses
// @Description Lists response summaries for a survey with pagination
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param versionId query string false "Filter by score config version"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param sort_by query string false "Sort field" default(created_at)
// @Param sort_dir query string false "Sort direction: asc or desc" default(desc)
// @Success 200 {object} PaginatedResponsesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/responses [get]
func (h *ScoringHandler) ListResponses(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	versionID, ok := versionFilterFromQuery(c)
	if !ok {
		return
	}

	opts := repository.DefaultPaginationOptions()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		opts.Limit = limit
	}
	if sortBy := c.Query("sort_by"); sortBy != "" {
		opts.SortBy = sortBy
	}
	if sortDir := c.Query("sort_dir"); sortDir == sortDirectionAsc {
		opts.SortDir = 1
	}

	result, err := h.scoringService.ListResponses(c.Request.Context(), surveyID, versionID, opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]ResponseSummary, len(result.Items))
	for i := range result.Items {
		items[i] = toResponseSummary(&result.Items[i])
	}

	c.JSON(http.StatusOK, PaginatedResponsesResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// GetTrace handles GET /api/v1/surveys/:surveyId/responses/:responseId/trace
// @Summary Get scoring trace
// @Description Returns the full scoring decomposition for one response: per-answer scores, category breakdowns and the overall index
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param responseId path string true "Response ID"
// @Success 200 {object} scoring.ScoringTrace
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/responses/{responseId}/trace [get]
func (h *ScoringHandler) GetTrace(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	responseID, ok := responseIDFromPath(c)
	if !ok {
		return
	}

	trace, err := h.scoringService.GetTrace(c.Request.Context(), surveyID, responseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trace)
}

// GetScore handles GET /api/v1/surveys/:surveyId/responses/:responseId/score
// @Summary Get response score
// @Description Returns the respondent-facing score view for one response, including range interpretation when configured
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param responseId path string true "Response ID"
// @Success 200 {object} scoring.ScoreResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/responses/{responseId}/score [get]
func (h *ScoringHandler) GetScore(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	responseID, ok := responseIDFromPath(c)
	if !ok {
		return
	}

	score, err := h.scoringService.GetScore(c.Request.Context(), surveyID, responseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

// DeleteResponse handles DELETE /api/v1/surveys/:surveyId/responses/:responseId
// @Summary Delete a response
// @Description Deletes a response and invalidates the survey's cached analytics (admin only)
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Param responseId path string true "Response ID"
// @Success 204 "No content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/responses/{responseId} [delete]
func (h *ScoringHandler) DeleteResponse(c *gin.Context) {
	actor, ok := middleware.GetSubject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}
	responseID, ok := responseIDFromPath(c)
	if !ok {
		return
	}

	err := h.scoringService.DeleteResponse(c.Request.Context(), surveyID, responseID, actor, c.ClientIP(), middleware.GetRequestID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListVersions handles GET /api/v1/surveys/:surveyId/versions
// @Summary List score config versions
// @Description Lists the survey's scoring configuration versions, newest first
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param surveyId path string true "Survey ID"
// @Success 200 {array} VersionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{surveyId}/versions [get]
func (h *ScoringHandler) ListVersions(c *gin.Context) {
	surveyID, ok := surveyIDFromPath(c)
	if !ok {
		return
	}

	versions, err := h.scoringService.ListVersions(c.Request.Context(), surveyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]VersionResponse, len(versions))
	for i := range versions {
		items[i] = toVersionResponse(&versions[i])
	}

	c.JSON(http.StatusOK, items)
}

// RegisterRoutes registers scoring handler routes
// #INTEGRATION_POINT: Deletion additionally requires the admin role
func (h *ScoringHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	surveys := rg.Group("/surveys/:surveyId")
	surveys.Use(authMiddleware)
	{
		surveys.GET("/responses", h.ListResponses)
		surveys.GET("/responses/:responseId/trace", h.GetTrace)
		surveys.GET("/responses/:responseId/score", h.GetScore)
		surveys.DELETE("/responses/:responseId", middleware.RequireAdmin(), h.DeleteResponse)
		surveys.GET("/versions", h.ListVersions)
	}
}

// toResponseSummary converts a response model to a list summary
func toResponseSummary(r *models.Response) ResponseSummary {
	summary := ResponseSummary{
		ID:                   r.ID.Hex(),
		SurveyID:             r.SurveyID.Hex(),
		CompletionPercentage: r.CompletionPercentage,
		AnswerCount:          len(r.Answers),
		ManagerName:          r.ManagerName(),
		StartedAt:            r.StartedAt,
		CompletedAt:          r.CompletedAt,
		TotalDurationMs:      r.TotalDurationMs,
		CreatedAt:            r.CreatedAt,
	}

	if managerID, ok := r.ManagerID(); ok {
		summary.ManagerID = managerID
	}

	if r.ScoreConfigVersionID != nil {
		versionID := r.ScoreConfigVersionID.Hex()
		summary.ScoreConfigVersionID = &versionID
	}

	return summary
}

// toVersionResponse converts a score config version model to response
func toVersionResponse(v *models.ScoreConfigVersion) VersionResponse {
	return VersionResponse{
		ID:           v.ID.Hex(),
		SurveyID:     v.SurveyID.Hex(),
		Version:      v.Version,
		Label:        v.Label,
		DisplayLabel: v.DisplayLabel(),
		CreatedAt:    v.CreatedAt,
	}
}
