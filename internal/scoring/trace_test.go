package scoring

import (
	"reflect"
	"testing"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

func scoredSurvey() *models.Survey {
	return &models.Survey{
		Title: "Engagement Pulse",
		Questions: []models.Question{
			{
				ID:              "q1",
				Type:            models.QuestionTypeOpinionScale,
				Title:           "How satisfied are you?",
				Scale:           &models.ScaleParams{Min: 0, Max: 10},
				Scorable:        true,
				ScoringCategory: "satisfaction",
			},
		},
		ScoreConfig: models.ScoreConfig{
			Enabled:  true,
			MaxScore: 100,
			Categories: []models.Category{
				{ID: "satisfaction", Name: "Satisfaction", Weight: 1},
			},
			Ranges: []models.ScoreRange{
				{ID: "r1", Min: 0, Max: 60, Label: "Needs Work", Color: "#f97316"},
				{ID: "r2", Min: 61, Max: 100, Label: "Healthy", Color: "#22c55e"},
			},
		},
	}
}

func TestBuildTrace(t *testing.T) {
	survey := scoredSurvey()
	response := &models.Response{
		Answers: map[string]models.AnswerValue{"q1": models.NewAnswer("7")},
	}

	trace := BuildTrace(survey, response)

	if !trace.ScoringEnabled {
		t.Error("BuildTrace() scoringEnabled = false, want true")
	}
	if len(trace.Errors) != 0 {
		t.Errorf("BuildTrace() errors = %v, want none", trace.Errors)
	}
	if len(trace.Contributions) != 1 {
		t.Fatalf("BuildTrace() contributions = %d, want 1", len(trace.Contributions))
	}
	if len(trace.Categories) != 1 {
		t.Fatalf("BuildTrace() categories = %d, want 1", len(trace.Categories))
	}

	cat := trace.Categories[0]
	if cat.RawTotal != 7 || cat.MaxTotal != 10 {
		t.Errorf("category totals = %v/%v, want 7/10", cat.RawTotal, cat.MaxTotal)
	}
	if cat.NormalizedScore != 70 {
		t.Errorf("category normalized score = %v, want 70", cat.NormalizedScore)
	}
	if cat.Band.ID != "61-80" {
		t.Errorf("category band = %v, want 61-80", cat.Band.ID)
	}

	if trace.Overall == nil {
		t.Fatal("BuildTrace() overall = nil, want score")
	}
	if trace.Overall.Score != 70 {
		t.Errorf("overall score = %v, want 70", trace.Overall.Score)
	}
	if trace.Overall.Band.ID != "61-80" || trace.Overall.Band.Label != "Good" {
		t.Errorf("overall band = %+v, want 61-80 Good", trace.Overall.Band)
	}
	if trace.Overall.MatchedRange == nil || trace.Overall.MatchedRange.Label != "Healthy" {
		t.Errorf("overall matched range = %+v, want Healthy", trace.Overall.MatchedRange)
	}
}

// Identical inputs must yield identical traces no matter how often the
// trace is rebuilt.
func TestBuildTrace_Reproducible(t *testing.T) {
	survey := scoredSurvey()
	response := &models.Response{
		Answers: map[string]models.AnswerValue{"q1": models.NewAnswer("7")},
	}

	first := BuildTrace(survey, response)
	second := BuildTrace(survey, response)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("BuildTrace() not reproducible:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestBuildTrace_ScoringDisabled(t *testing.T) {
	survey := scoredSurvey()
	survey.ScoreConfig.Enabled = false
	response := &models.Response{
		Answers: map[string]models.AnswerValue{"q1": models.NewAnswer("7")},
	}

	trace := BuildTrace(survey, response)

	if trace.ScoringEnabled {
		t.Error("BuildTrace() scoringEnabled = true, want false")
	}
	if len(trace.Contributions) != 0 || len(trace.Categories) != 0 || trace.Overall != nil {
		t.Errorf("disabled scoring produced content: %+v", trace)
	}
	if len(trace.Errors) != 1 || trace.Errors[0] != "scoring is not enabled for this survey" {
		t.Errorf("BuildTrace() errors = %v, want disabled notice", trace.Errors)
	}
}

func TestBuildTrace_NoCategoriesConfigured(t *testing.T) {
	survey := scoredSurvey()
	survey.ScoreConfig.Categories = nil
	survey.ScoreConfig.Ranges = nil
	response := &models.Response{
		Answers: map[string]models.AnswerValue{"q1": models.NewAnswer("7")},
	}

	trace := BuildTrace(survey, response)

	if len(trace.Categories) != 0 || trace.Overall != nil {
		t.Errorf("missing config produced content: %+v", trace)
	}
	wantErrs := []string{"no scoring categories configured", "no score ranges configured"}
	if !reflect.DeepEqual(trace.Errors, wantErrs) {
		t.Errorf("BuildTrace() errors = %v, want %v", trace.Errors, wantErrs)
	}
}

func TestBuildTrace_NoAnsweredScorableQuestions(t *testing.T) {
	survey := scoredSurvey()
	response := &models.Response{Answers: map[string]models.AnswerValue{}}

	trace := BuildTrace(survey, response)

	if trace.Overall != nil {
		t.Errorf("overall = %+v, want nil when nothing scorable was answered", trace.Overall)
	}
	// The category breakdown still appears, zeroed
	if len(trace.Categories) != 1 || trace.Categories[0].NormalizedScore != 0 {
		t.Errorf("categories = %+v, want single zeroed breakdown", trace.Categories)
	}
}

// The overall index is the plain mean of category scores; category weights
// must not move it.
func TestBuildTrace_OverallIgnoresCategoryWeights(t *testing.T) {
	survey := &models.Survey{
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionTypeOpinionScale, Scale: &models.ScaleParams{Min: 0, Max: 10}, Scorable: true, ScoringCategory: "a"},
			{ID: "q2", Type: models.QuestionTypeOpinionScale, Scale: &models.ScaleParams{Min: 0, Max: 10}, Scorable: true, ScoringCategory: "b"},
		},
		ScoreConfig: models.ScoreConfig{
			Enabled: true,
			Categories: []models.Category{
				{ID: "a", Name: "A", Weight: 10},
				{ID: "b", Name: "B", Weight: 1},
			},
		},
	}
	response := &models.Response{
		Answers: map[string]models.AnswerValue{
			"q1": models.NewAnswer("10"), // 100
			"q2": models.NewAnswer("5"),  // 50
		},
	}

	trace := BuildTrace(survey, response)

	if trace.Overall == nil || trace.Overall.Score != 75 {
		t.Errorf("overall = %+v, want unweighted mean 75", trace.Overall)
	}
}

func TestBuildScoreResult(t *testing.T) {
	survey := scoredSurvey()
	// Category-specific range narrows the global one
	survey.ScoreConfig.Ranges = append(survey.ScoreConfig.Ranges,
		models.ScoreRange{ID: "r3", Category: "satisfaction", Min: 0, Max: 100, Label: "Satisfaction Band"})
	response := &models.Response{
		Answers: map[string]models.AnswerValue{"q1": models.NewAnswer("7")},
	}

	result := BuildScoreResult(survey, response)

	if result.Score == nil || *result.Score != 70 {
		t.Fatalf("BuildScoreResult() score = %v, want 70", result.Score)
	}
	// Overall resolves against global ranges only
	if result.MatchedRange == nil || result.MatchedRange.Label != "Healthy" {
		t.Errorf("overall matched range = %+v, want Healthy", result.MatchedRange)
	}
	if len(result.Categories) != 1 {
		t.Fatalf("BuildScoreResult() categories = %d, want 1", len(result.Categories))
	}
	// Category score prefers its category-specific range
	if result.Categories[0].MatchedRange == nil || result.Categories[0].MatchedRange.Label != "Satisfaction Band" {
		t.Errorf("category matched range = %+v, want Satisfaction Band", result.Categories[0].MatchedRange)
	}
}

func TestOverallIndexScore(t *testing.T) {
	survey := scoredSurvey()

	answered := &models.Response{
		Answers: map[string]models.AnswerValue{"q1": models.NewAnswer("7")},
	}
	if got := OverallIndexScore(survey, answered); got == nil || *got != 70 {
		t.Errorf("OverallIndexScore() = %v, want 70", got)
	}

	unanswered := &models.Response{Answers: map[string]models.AnswerValue{}}
	if got := OverallIndexScore(survey, unanswered); got != nil {
		t.Errorf("OverallIndexScore() = %v, want nil for unanswered response", got)
	}

	survey.ScoreConfig.Enabled = false
	if got := OverallIndexScore(survey, answered); got != nil {
		t.Errorf("OverallIndexScore() = %v, want nil when scoring disabled", got)
	}
}
