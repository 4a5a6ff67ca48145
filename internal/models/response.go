package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Metadata keys recognized by the analytics rollups
const (
	MetadataKeyManagerID   = "managerId"
	MetadataKeyManagerName = "managerName"
)

// CompletionThresholdPercent is the completion percentage at or above which
// a response counts as complete
// #BUSINESS_RULE: 80% completion counts as a completed response
const CompletionThresholdPercent = 80.0

// AnswerValue holds one respondent answer, submitted either as a single
// string or as a list of strings. The submitted shape is preserved through
// storage and JSON so multi-select answers stay distinguishable from single
// values.
// #IMPLEMENTATION_DECISION: Custom JSON/BSON codecs instead of interface{}
// so repositories and handlers never type-switch on raw answer values
type AnswerValue struct {
	values []string
	list   bool
}

// NewAnswer creates a single-valued answer
func NewAnswer(value string) AnswerValue {
	return AnswerValue{values: []string{value}}
}

// NewMultiAnswer creates a list-valued answer
func NewMultiAnswer(values []string) AnswerValue {
	vals := make([]string, len(values))
	copy(vals, values)
	return AnswerValue{values: vals, list: true}
}

// IsList returns true if the answer was submitted as a list
func (a AnswerValue) IsList() bool {
	return a.list
}

// First returns the first value, or "" when the answer is empty
func (a AnswerValue) First() string {
	if len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

// Values returns all submitted values
func (a AnswerValue) Values() []string {
	if len(a.values) == 0 {
		return nil
	}
	vals := make([]string, len(a.values))
	copy(vals, a.values)
	return vals
}

// IsAnswered returns true if the answer carries at least one non-empty value
func (a AnswerValue) IsAnswered() bool {
	for _, v := range a.values {
		if v != "" {
			return true
		}
	}
	return false
}

// MarshalJSON writes the answer back in its submitted shape
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.list {
		if a.values == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(a.values)
	}
	return json.Marshal(a.First())
}

// UnmarshalJSON accepts either a string or a list of strings
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = NewAnswer(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = NewMultiAnswer(list)
		return nil
	}
	return fmt.Errorf("%w: answer must be a string or a list of strings", ErrInvalidAnswerFormat)
}

// MarshalBSONValue stores the answer in its submitted shape
func (a AnswerValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if a.list {
		if a.values == nil {
			return bson.MarshalValue([]string{})
		}
		return bson.MarshalValue(a.values)
	}
	return bson.MarshalValue(a.First())
}

// UnmarshalBSONValue accepts either a stored string or a stored array
func (a *AnswerValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		var s string
		if err := raw.Unmarshal(&s); err != nil {
			return err
		}
		*a = NewAnswer(s)
	case bsontype.Array:
		var list []string
		if err := raw.Unmarshal(&list); err != nil {
			return err
		}
		*a = NewMultiAnswer(list)
	case bsontype.Null, bsontype.Undefined:
		*a = AnswerValue{}
	default:
		return fmt.Errorf("%w: unexpected BSON type %s", ErrInvalidAnswerFormat, t)
	}
	return nil
}

// Response represents one respondent's submission to a survey. Responses are
// created by the delivery service and are immutable here, deletion aside.
// #DATA_ASSUMPTION: Answers keyed by question ID; absent key means unanswered
// #NORMALIZATION_DECISION: Metadata stored as an opaque string map so the
// delivery service can attach segmentation fields without schema changes
type Response struct {
	ID       primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	SurveyID primitive.ObjectID     `bson:"survey_id" json:"survey_id"`
	Answers  map[string]AnswerValue `bson:"answers" json:"answers"`
	Metadata map[string]string      `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CompletionPercentage float64 `bson:"completion_percentage" json:"completion_percentage"`

	// Timing
	StartedAt       *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt     *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	TotalDurationMs *int64     `bson:"total_duration_ms,omitempty" json:"total_duration_ms,omitempty"`

	// Scoring configuration version active at submission time
	ScoreConfigVersionID *primitive.ObjectID `bson:"score_config_version_id,omitempty" json:"score_config_version_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for survey responses
func (Response) CollectionName() string {
	return "survey_responses"
}

// BeforeCreate sets default values before inserting a new response
func (r *Response) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Answers == nil {
		r.Answers = map[string]AnswerValue{}
	}
}

// Answer returns the answer for a question and whether one was recorded
func (r *Response) Answer(questionID string) (AnswerValue, bool) {
	a, ok := r.Answers[questionID]
	return a, ok
}

// HasAnswer returns true if the question was answered with a non-empty value
func (r *Response) HasAnswer(questionID string) bool {
	a, ok := r.Answers[questionID]
	return ok && a.IsAnswered()
}

// IsComplete returns true if the response cleared the completion threshold
func (r *Response) IsComplete() bool {
	return r.CompletionPercentage >= CompletionThresholdPercent
}

// DurationSeconds returns the completion time in seconds. The stored
// duration wins; (completedAt - startedAt) is the fallback. ok is false when
// neither source is usable.
func (r *Response) DurationSeconds() (float64, bool) {
	if r.TotalDurationMs != nil {
		return float64(*r.TotalDurationMs) / 1000, true
	}
	if r.CompletedAt != nil && r.StartedAt != nil {
		d := r.CompletedAt.Sub(*r.StartedAt).Seconds()
		if d >= 0 {
			return d, true
		}
	}
	return 0, false
}

// Timestamp returns the instant used for calendar bucketing: completion
// when recorded, otherwise start. ok is false when neither is recorded.
func (r *Response) Timestamp() (time.Time, bool) {
	if r.CompletedAt != nil {
		return *r.CompletedAt, true
	}
	if r.StartedAt != nil {
		return *r.StartedAt, true
	}
	return time.Time{}, false
}

// ManagerID returns the manager identifier from response metadata
func (r *Response) ManagerID() (string, bool) {
	id, ok := r.Metadata[MetadataKeyManagerID]
	return id, ok && id != ""
}

// ManagerName returns the manager display name from response metadata,
// falling back to the manager ID
func (r *Response) ManagerName() string {
	if name, ok := r.Metadata[MetadataKeyManagerName]; ok && name != "" {
		return name
	}
	id, _ := r.ManagerID()
	return id
}
