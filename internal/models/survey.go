package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyStatus represents the status of a survey
// #IMPLEMENTATION_DECISION: DRAFT -> PUBLISHED -> CLOSED -> ARCHIVED lifecycle
type SurveyStatus string

const (
	SurveyStatusDraft     SurveyStatus = "DRAFT"
	SurveyStatusPublished SurveyStatus = "PUBLISHED"
	SurveyStatusClosed    SurveyStatus = "CLOSED"
	SurveyStatusArchived  SurveyStatus = "ARCHIVED"
)

// MarshalJSON converts SurveyStatus to lowercase for JSON serialization
func (ss SurveyStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ss)))
}

// UnmarshalJSON converts lowercase JSON to SurveyStatus
func (ss *SurveyStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ss = SurveyStatus(strings.ToUpper(s))
	return nil
}

// IsValid checks if the SurveyStatus is a valid value
func (ss SurveyStatus) IsValid() bool {
	switch ss {
	case SurveyStatusDraft, SurveyStatusPublished, SurveyStatusClosed, SurveyStatusArchived:
		return true
	}
	return false
}

// Category represents one scoring category (a "domain" on dashboards)
type Category struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Weight float64 `bson:"weight" json:"weight"`
}

// ScoreRange represents a survey-authored interpretive band shown to
// respondents. An empty Category applies the range to every category and to
// the overall score as a global fallback.
// #BUSINESS_RULE: Survey-authored ranges are respondent-facing only; they
// never feed cross-survey analytics
type ScoreRange struct {
	ID             string  `bson:"id" json:"id"`
	Category       string  `bson:"category,omitempty" json:"category,omitempty"`
	Min            float64 `bson:"min" json:"min"`
	Max            float64 `bson:"max" json:"max"`
	Label          string  `bson:"label" json:"label"`
	Color          string  `bson:"color" json:"color"`
	Interpretation string  `bson:"interpretation,omitempty" json:"interpretation,omitempty"`
}

// Contains returns true if the score falls inside the range, bounds inclusive
func (sr *ScoreRange) Contains(score float64) bool {
	return score >= sr.Min && score <= sr.Max
}

// IsGlobal returns true if the range applies to all categories
func (sr *ScoreRange) IsGlobal() bool {
	return sr.Category == ""
}

// ScoreConfig holds a survey's scoring configuration: the category list
// questions roll up into and the authored interpretive ranges
type ScoreConfig struct {
	Enabled    bool         `bson:"enabled" json:"enabled"`
	MaxScore   float64      `bson:"max_score,omitempty" json:"max_score,omitempty"`
	Categories []Category   `bson:"categories" json:"categories"`
	Ranges     []ScoreRange `bson:"ranges" json:"ranges"`
}

// MaxConfiguredScore returns the normalized scale upper bound, defaulting to 100
func (sc *ScoreConfig) MaxConfiguredScore() float64 {
	if sc.MaxScore > 0 {
		return sc.MaxScore
	}
	return 100
}

// HasCategories returns true if at least one category is configured
func (sc *ScoreConfig) HasCategories() bool {
	return len(sc.Categories) > 0
}

// CategoryByID returns a category by its ID
func (sc *ScoreConfig) CategoryByID(categoryID string) *Category {
	for i := range sc.Categories {
		if sc.Categories[i].ID == categoryID {
			return &sc.Categories[i]
		}
	}
	return nil
}

// FindRange resolves the authored range for a normalized score.
// Category-specific ranges win; ranges with no category are the global
// fallback; nil when nothing matches.
func (sc *ScoreConfig) FindRange(score float64, categoryID string) *ScoreRange {
	if categoryID != "" {
		for i := range sc.Ranges {
			if sc.Ranges[i].Category == categoryID && sc.Ranges[i].Contains(score) {
				return &sc.Ranges[i]
			}
		}
	}
	for i := range sc.Ranges {
		if sc.Ranges[i].IsGlobal() && sc.Ranges[i].Contains(score) {
			return &sc.Ranges[i]
		}
	}
	return nil
}

// Survey represents an authored survey with its questions and scoring
// configuration. Surveys are authored in the builder service; this service
// only reads them.
// #CARDINALITY_ASSUMPTION: Survey 1:N Responses - every response references one survey
type Survey struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      SurveyStatus       `bson:"status" json:"status"`

	Questions   []Question  `bson:"questions" json:"questions"`
	ScoreConfig ScoreConfig `bson:"score_config" json:"score_config"`

	// Number of invited respondents, when the invitation service reported it
	// #DATA_ASSUMPTION: nil means the invite count is unknown, not zero
	InvitedCount *int `bson:"invited_count,omitempty" json:"invited_count,omitempty"`

	// Audit fields
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for surveys
func (Survey) CollectionName() string {
	return "surveys"
}

// BeforeCreate sets default values before inserting a new survey
func (s *Survey) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	if s.Status == "" {
		s.Status = SurveyStatusDraft
	}
	if s.Questions == nil {
		s.Questions = []Question{}
	}
	if s.ScoreConfig.Categories == nil {
		s.ScoreConfig.Categories = []Category{}
	}
	if s.ScoreConfig.Ranges == nil {
		s.ScoreConfig.Ranges = []ScoreRange{}
	}
}

// BeforeUpdate sets the UpdatedAt timestamp
func (s *Survey) BeforeUpdate() {
	s.UpdatedAt = time.Now().UTC()
}

// QuestionByID returns a question by its ID
func (s *Survey) QuestionByID(questionID string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return &s.Questions[i]
		}
	}
	return nil
}

// ScorableQuestions returns the questions that participate in score aggregation
func (s *Survey) ScorableQuestions() []Question {
	var scorable []Question
	for _, q := range s.Questions {
		if q.IsScorable() {
			scorable = append(scorable, q)
		}
	}
	return scorable
}

// QuestionCount returns the number of questions in the survey
func (s *Survey) QuestionCount() int {
	return len(s.Questions)
}

// ScoringEnabled returns true if the survey has scoring switched on
func (s *Survey) ScoringEnabled() bool {
	return s.ScoreConfig.Enabled
}
