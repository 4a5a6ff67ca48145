package models

import (
	"encoding/json"
	"testing"
)

func TestSurveyStatusMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   SurveyStatus
		expected string
	}{
		{"Draft status", SurveyStatusDraft, `"draft"`},
		{"Published status", SurveyStatusPublished, `"published"`},
		{"Closed status", SurveyStatusClosed, `"closed"`},
		{"Archived status", SurveyStatusArchived, `"archived"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.status)
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("MarshalJSON() = %v, want %v", string(data), tt.expected)
			}
		})
	}
}

func TestSurveyStatusIsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   SurveyStatus
		expected bool
	}{
		{"Valid published", SurveyStatusPublished, true},
		{"Valid archived", SurveyStatusArchived, true},
		{"Invalid empty", SurveyStatus(""), false},
		{"Invalid unknown", SurveyStatus("DELETED"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScoreRangeContains(t *testing.T) {
	r := ScoreRange{Min: 61, Max: 80}

	tests := []struct {
		name     string
		score    float64
		expected bool
	}{
		{"Below range", 60.9, false},
		{"Lower bound inclusive", 61, true},
		{"Inside range", 70, true},
		{"Upper bound inclusive", 80, true},
		{"Above range", 80.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.score); got != tt.expected {
				t.Errorf("Contains(%v) = %v, want %v", tt.score, got, tt.expected)
			}
		})
	}
}

func TestScoreConfigFindRange(t *testing.T) {
	config := ScoreConfig{
		Ranges: []ScoreRange{
			{ID: "global-low", Min: 0, Max: 50, Label: "Low"},
			{ID: "global-high", Min: 51, Max: 100, Label: "High"},
			{ID: "cat-mid", Category: "quality", Min: 40, Max: 60, Label: "Quality Mid"},
		},
	}

	tests := []struct {
		name       string
		score      float64
		categoryID string
		expected   string
	}{
		{"Global match without category", 30, "", "global-low"},
		{"Category-specific wins", 45, "quality", "cat-mid"},
		{"Category miss falls back to global", 70, "quality", "global-high"},
		{"Unknown category uses global", 45, "loyalty", "global-low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.FindRange(tt.score, tt.categoryID)
			if got == nil {
				t.Fatalf("FindRange(%v, %q) = nil, want %v", tt.score, tt.categoryID, tt.expected)
			}
			if got.ID != tt.expected {
				t.Errorf("FindRange(%v, %q) = %v, want %v", tt.score, tt.categoryID, got.ID, tt.expected)
			}
		})
	}

	if got := config.FindRange(200, ""); got != nil {
		t.Errorf("FindRange(200) = %v, want nil outside all ranges", got)
	}
	empty := ScoreConfig{}
	if got := empty.FindRange(50, ""); got != nil {
		t.Errorf("FindRange() on empty config = %v, want nil", got)
	}
}

func TestScoreConfigMaxConfiguredScore(t *testing.T) {
	config := ScoreConfig{}
	if got := config.MaxConfiguredScore(); got != 100 {
		t.Errorf("MaxConfiguredScore() = %v, want default 100", got)
	}
	config.MaxScore = 10
	if got := config.MaxConfiguredScore(); got != 10 {
		t.Errorf("MaxConfiguredScore() = %v, want 10", got)
	}
}

func TestSurveyBeforeCreate(t *testing.T) {
	s := Survey{Title: "Pulse"}
	s.BeforeCreate()

	if s.ID.IsZero() {
		t.Error("BeforeCreate() left ID unset")
	}
	if s.Status != SurveyStatusDraft {
		t.Errorf("BeforeCreate() status = %v, want draft default", s.Status)
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.IsZero() {
		t.Error("BeforeCreate() left timestamps unset")
	}
	if s.Questions == nil || s.ScoreConfig.Categories == nil || s.ScoreConfig.Ranges == nil {
		t.Error("BeforeCreate() left slices nil")
	}
}

func TestSurveyScorableQuestions(t *testing.T) {
	s := Survey{
		Questions: []Question{
			{ID: "q1", Scorable: true, ScoringCategory: "a"},
			{ID: "q2"},
			{ID: "q3", Scorable: true}, // mismatch, not scorable
			{ID: "q4", Scorable: true, ScoringCategory: "b"},
		},
	}

	got := s.ScorableQuestions()
	if len(got) != 2 {
		t.Fatalf("ScorableQuestions() = %d questions, want 2", len(got))
	}
	if got[0].ID != "q1" || got[1].ID != "q4" {
		t.Errorf("ScorableQuestions() = %v, %v, want q1, q4", got[0].ID, got[1].ID)
	}
}
