package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/middleware"
	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/repository"
	"github.com/formpulse-tools/insights_backend/internal/scoring"
)

// stubScoringService implements services.ScoringService for testing
type stubScoringService struct {
	trace    *scoring.ScoringTrace
	score    *scoring.ScoreResult
	page     *repository.PaginatedResult[models.Response]
	versions []models.ScoreConfigVersion
	err      error

	lastOpts    repository.PaginationOptions
	lastActor   string
	deletedID   primitive.ObjectID
	deleteCalls int
}

func (s *stubScoringService) GetTrace(ctx context.Context, surveyID, responseID primitive.ObjectID) (*scoring.ScoringTrace, error) {
	return s.trace, s.err
}

func (s *stubScoringService) GetScore(ctx context.Context, surveyID, responseID primitive.ObjectID) (*scoring.ScoreResult, error) {
	return s.score, s.err
}

func (s *stubScoringService) ListResponses(ctx context.Context, surveyID primitive.ObjectID, versionID *primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error) {
	s.lastOpts = opts
	return s.page, s.err
}

func (s *stubScoringService) DeleteResponse(ctx context.Context, surveyID, responseID primitive.ObjectID, actor, ipAddress, requestID string) error {
	s.deleteCalls++
	s.lastActor = actor
	s.deletedID = responseID
	return s.err
}

func (s *stubScoringService) ListVersions(ctx context.Context, surveyID primitive.ObjectID) ([]models.ScoreConfigVersion, error) {
	return s.versions, s.err
}

// authAs returns a middleware stub that injects an authenticated identity
func authAs(subject, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject != "" {
			c.Set(middleware.ContextKeySubject, subject)
		}
		if role != "" {
			c.Set(middleware.ContextKeyRole, role)
		}
		c.Next()
	}
}

func newScoringRouter(svc *stubScoringService, authMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	rg := router.Group("/api/v1")
	NewScoringHandler(svc).RegisterRoutes(rg, authMiddleware)
	return router
}

func TestScoringHandler_ListResponses(t *testing.T) {
	surveyID := primitive.NewObjectID()
	responseID := primitive.NewObjectID()
	svc := &stubScoringService{
		page: &repository.PaginatedResult[models.Response]{
			Items: []models.Response{
				{
					ID:                   responseID,
					SurveyID:             surveyID,
					CompletionPercentage: 100,
					Answers: map[string]models.AnswerValue{
						"q1": models.NewAnswer("4"),
					},
					CreatedAt: time.Now().UTC(),
				},
			},
			TotalCount: 11,
			Page:       2,
			Limit:      5,
			TotalPages: 3,
		},
	}
	router := newScoringRouter(svc, passthroughAuth)

	req := httptest.NewRequest("GET", "/api/v1/surveys/"+surveyID.Hex()+"/responses?page=2&limit=5&sort_dir=asc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	if svc.lastOpts.Page != 2 {
		t.Errorf("Expected page 2 passed to service, got %d", svc.lastOpts.Page)
	}
	if svc.lastOpts.Limit != 5 {
		t.Errorf("Expected limit 5 passed to service, got %d", svc.lastOpts.Limit)
	}
	if svc.lastOpts.SortDir != 1 {
		t.Errorf("Expected ascending sort passed to service, got %d", svc.lastOpts.SortDir)
	}

	var resp PaginatedResponsesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != responseID.Hex() {
		t.Errorf("Expected item ID %s, got %s", responseID.Hex(), resp.Items[0].ID)
	}
	if resp.Items[0].AnswerCount != 1 {
		t.Errorf("Expected answer count 1, got %d", resp.Items[0].AnswerCount)
	}
	if resp.TotalCount != 11 || resp.TotalPages != 3 {
		t.Errorf("Expected total count 11 over 3 pages, got %d over %d", resp.TotalCount, resp.TotalPages)
	}
}

func TestScoringHandler_GetTrace(t *testing.T) {
	surveyID := primitive.NewObjectID()
	responseID := primitive.NewObjectID()
	svc := &stubScoringService{
		trace: &scoring.ScoringTrace{
			SurveyID:       surveyID.Hex(),
			ResponseID:     responseID.Hex(),
			ScoringEnabled: true,
			Overall: &scoring.OverallScore{
				Score: 72,
				Band:  scoring.ResolveIndexBand(72),
			},
		},
	}
	router := newScoringRouter(svc, passthroughAuth)

	req := httptest.NewRequest("GET", "/api/v1/surveys/"+surveyID.Hex()+"/responses/"+responseID.Hex()+"/trace", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp scoring.ScoringTrace
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Overall == nil || resp.Overall.Score != 72 {
		t.Errorf("Expected overall score 72, got %+v", resp.Overall)
	}
}

func TestScoringHandler_GetScore(t *testing.T) {
	surveyID := primitive.NewObjectID()
	responseID := primitive.NewObjectID()
	overall := 64.0
	svc := &stubScoringService{
		score: &scoring.ScoreResult{
			SurveyID:       surveyID.Hex(),
			ResponseID:     responseID.Hex(),
			ScoringEnabled: true,
			Score:          &overall,
		},
	}
	router := newScoringRouter(svc, passthroughAuth)

	req := httptest.NewRequest("GET", "/api/v1/surveys/"+surveyID.Hex()+"/responses/"+responseID.Hex()+"/score", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp scoring.ScoreResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Score == nil || *resp.Score != 64 {
		t.Errorf("Expected score 64, got %+v", resp.Score)
	}
}

func TestScoringHandler_InvalidResponseID(t *testing.T) {
	router := newScoringRouter(&stubScoringService{}, passthroughAuth)

	surveyID := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("GET", "/api/v1/surveys/"+surveyID+"/responses/bogus/trace", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestScoringHandler_ResponseSurveyMismatch(t *testing.T) {
	svc := &stubScoringService{err: models.ErrResponseSurveyMismatch}
	router := newScoringRouter(svc, passthroughAuth)

	surveyID := primitive.NewObjectID().Hex()
	responseID := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("GET", "/api/v1/surveys/"+surveyID+"/responses/"+responseID+"/trace", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestScoringHandler_DeleteResponse(t *testing.T) {
	surveyID := primitive.NewObjectID()
	responseID := primitive.NewObjectID()
	svc := &stubScoringService{}
	router := newScoringRouter(svc, authAs("admin@formpulse.io", "ADMIN"))

	req := httptest.NewRequest("DELETE", "/api/v1/surveys/"+surveyID.Hex()+"/responses/"+responseID.Hex(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusNoContent, w.Code, w.Body.String())
	}
	if svc.deleteCalls != 1 {
		t.Fatalf("Expected 1 delete call, got %d", svc.deleteCalls)
	}
	if svc.lastActor != "admin@formpulse.io" {
		t.Errorf("Expected actor admin@formpulse.io, got %s", svc.lastActor)
	}
	if svc.deletedID != responseID {
		t.Errorf("Expected deleted ID %s, got %s", responseID.Hex(), svc.deletedID.Hex())
	}
}

func TestScoringHandler_DeleteResponse_RequiresAdmin(t *testing.T) {
	svc := &stubScoringService{}
	router := newScoringRouter(svc, authAs("viewer@formpulse.io", "VIEWER"))

	surveyID := primitive.NewObjectID().Hex()
	responseID := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("DELETE", "/api/v1/surveys/"+surveyID+"/responses/"+responseID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
	if svc.deleteCalls != 0 {
		t.Errorf("Expected no delete calls, got %d", svc.deleteCalls)
	}
}

func TestScoringHandler_DeleteResponse_MissingSubject(t *testing.T) {
	svc := &stubScoringService{}
	router := newScoringRouter(svc, authAs("", "ADMIN"))

	surveyID := primitive.NewObjectID().Hex()
	responseID := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("DELETE", "/api/v1/surveys/"+surveyID+"/responses/"+responseID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if svc.deleteCalls != 0 {
		t.Errorf("Expected no delete calls, got %d", svc.deleteCalls)
	}
}

func TestScoringHandler_ListVersions(t *testing.T) {
	surveyID := primitive.NewObjectID()
	svc := &stubScoringService{
		versions: []models.ScoreConfigVersion{
			{ID: primitive.NewObjectID(), SurveyID: surveyID, Version: 2, Label: "Recalibrated weights"},
			{ID: primitive.NewObjectID(), SurveyID: surveyID, Version: 1},
		},
	}
	router := newScoringRouter(svc, passthroughAuth)

	req := httptest.NewRequest("GET", "/api/v1/surveys/"+surveyID.Hex()+"/versions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp []VersionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("Expected 2 versions, got %d", len(resp))
	}
	if resp[0].Version != 2 || resp[0].Label != "Recalibrated weights" {
		t.Errorf("Unexpected first version: %+v", resp[0])
	}
	if resp[1].DisplayLabel == "" {
		t.Error("Expected fallback display label for unlabeled version")
	}
}

func TestToResponseSummary(t *testing.T) {
	versionID := primitive.NewObjectID()
	completed := time.Now().UTC()
	started := completed.Add(-5 * time.Minute)
	duration := int64(300000)

	response := models.Response{
		ID:                   primitive.NewObjectID(),
		SurveyID:             primitive.NewObjectID(),
		CompletionPercentage: 100,
		Answers: map[string]models.AnswerValue{
			"q1": models.NewAnswer("5"),
			"q2": models.NewAnswer("Yes"),
		},
		Metadata: map[string]string{
			models.MetadataKeyManagerID:   "mgr-100",
			models.MetadataKeyManagerName: "Dana Alvarez",
		},
		StartedAt:            &started,
		CompletedAt:          &completed,
		TotalDurationMs:      &duration,
		ScoreConfigVersionID: &versionID,
	}

	summary := toResponseSummary(&response)

	if summary.AnswerCount != 2 {
		t.Errorf("Expected answer count 2, got %d", summary.AnswerCount)
	}
	if summary.ManagerID != "mgr-100" {
		t.Errorf("Expected manager ID mgr-100, got %s", summary.ManagerID)
	}
	if summary.ManagerName != "Dana Alvarez" {
		t.Errorf("Expected manager name Dana Alvarez, got %s", summary.ManagerName)
	}
	if summary.ScoreConfigVersionID == nil || *summary.ScoreConfigVersionID != versionID.Hex() {
		t.Errorf("Expected version ID %s, got %v", versionID.Hex(), summary.ScoreConfigVersionID)
	}
	if summary.TotalDurationMs == nil || *summary.TotalDurationMs != 300000 {
		t.Errorf("Expected duration 300000ms, got %v", summary.TotalDurationMs)
	}
}

func TestToResponseSummary_NoManager(t *testing.T) {
	response := models.Response{
		ID:       primitive.NewObjectID(),
		SurveyID: primitive.NewObjectID(),
	}

	summary := toResponseSummary(&response)

	if summary.ManagerID != "" {
		t.Errorf("Expected empty manager ID, got %s", summary.ManagerID)
	}
	if summary.ManagerName != "" {
		t.Errorf("Expected empty manager name, got %s", summary.ManagerName)
	}
	if summary.ScoreConfigVersionID != nil {
		t.Errorf("Expected nil version ID, got %v", summary.ScoreConfigVersionID)
	}
	if summary.AnswerCount != 0 {
		t.Errorf("Expected answer count 0, got %d", summary.AnswerCount)
	}
}
