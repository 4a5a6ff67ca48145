package models

import (
	"encoding/json"
	"strings"
)

// QuestionType represents the type of question
// #IMPLEMENTATION_DECISION: One flat enum for all builder question kinds;
// structural kinds are part of the enum so surveys round-trip losslessly
type QuestionType string

const (
	QuestionTypeRating         QuestionType = "RATING"
	QuestionTypeNPS            QuestionType = "NPS"
	QuestionTypeLikert         QuestionType = "LIKERT"
	QuestionTypeOpinionScale   QuestionType = "OPINION_SCALE"
	QuestionTypeSlider         QuestionType = "SLIDER"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeDropdown       QuestionType = "DROPDOWN"
	QuestionTypeCheckbox       QuestionType = "CHECKBOX"
	QuestionTypeImageChoice    QuestionType = "IMAGE_CHOICE"
	QuestionTypeYesNo          QuestionType = "YES_NO"
	QuestionTypeMatrix         QuestionType = "MATRIX"
	QuestionTypeRanking        QuestionType = "RANKING"
	QuestionTypeConstantSum    QuestionType = "CONSTANT_SUM"
	QuestionTypeNumber         QuestionType = "NUMBER"
	QuestionTypeText           QuestionType = "TEXT"
	QuestionTypeTextarea       QuestionType = "TEXTAREA"
	QuestionTypeDate           QuestionType = "DATE"
	QuestionTypeSection        QuestionType = "SECTION"
)

// MarshalJSON converts QuestionType to lowercase with underscores for JSON serialization
func (qt QuestionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(qt)))
}

// UnmarshalJSON converts lowercase JSON to QuestionType
func (qt *QuestionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*qt = QuestionType(strings.ToUpper(s))
	return nil
}

// IsValid checks if the QuestionType is a valid value
func (qt QuestionType) IsValid() bool {
	switch qt {
	case QuestionTypeRating, QuestionTypeNPS, QuestionTypeLikert,
		QuestionTypeOpinionScale, QuestionTypeSlider, QuestionTypeMultipleChoice,
		QuestionTypeDropdown, QuestionTypeCheckbox, QuestionTypeImageChoice,
		QuestionTypeYesNo, QuestionTypeMatrix, QuestionTypeRanking,
		QuestionTypeConstantSum, QuestionTypeNumber, QuestionTypeText,
		QuestionTypeTextarea, QuestionTypeDate, QuestionTypeSection:
		return true
	}
	return false
}

// IsStructural returns true for display-only types that never carry a score
func (qt QuestionType) IsStructural() bool {
	switch qt {
	case QuestionTypeText, QuestionTypeTextarea, QuestionTypeDate, QuestionTypeSection:
		return true
	}
	return false
}

// IsMultiSelect returns true if answers arrive as a list of values
func (qt QuestionType) IsMultiSelect() bool {
	return qt == QuestionTypeCheckbox || qt == QuestionTypeRanking
}

// IsNumeric returns true for types whose answers are averaged as numbers
func (qt QuestionType) IsNumeric() bool {
	switch qt {
	case QuestionTypeRating, QuestionTypeNPS, QuestionTypeOpinionScale,
		QuestionTypeSlider, QuestionTypeNumber:
		return true
	}
	return false
}

// RatingParams holds parameters for rating questions
type RatingParams struct {
	Scale int `bson:"scale" json:"scale"`
}

// LikertParams holds parameters for likert questions
type LikertParams struct {
	Points int      `bson:"points" json:"points"`
	Labels []string `bson:"labels,omitempty" json:"labels,omitempty"`
}

// ScaleParams holds parameters for opinion scale and slider questions
type ScaleParams struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

// ChoiceParams holds parameters for option-list questions
// (multiple choice, dropdown, image choice, ranking)
type ChoiceParams struct {
	Options []string `bson:"options" json:"options"`
}

// CheckboxParams holds parameters for checkbox questions
type CheckboxParams struct {
	Options       []string `bson:"options" json:"options"`
	MaxSelections int      `bson:"max_selections" json:"max_selections"`
}

// MatrixParams holds parameters for matrix questions
type MatrixParams struct {
	RowLabels []string `bson:"row_labels" json:"row_labels"`
	ColLabels []string `bson:"col_labels" json:"col_labels"`
}

// ConstantSumParams holds parameters for constant sum questions
type ConstantSumParams struct {
	Options     []string `bson:"options" json:"options"`
	TotalPoints int      `bson:"total_points" json:"total_points"`
}

// YesNoParams holds parameters for yes/no questions
type YesNoParams struct {
	YesLabel string `bson:"yes_label,omitempty" json:"yes_label,omitempty"`
	NoLabel  string `bson:"no_label,omitempty" json:"no_label,omitempty"`
}

// Default likert label sets keyed by point count
// #DATA_ASSUMPTION: Builders that skip custom labels get the standard agreement scale
var (
	likertLabels5 = []string{"Strongly Disagree", "Disagree", "Neutral", "Agree", "Strongly Agree"}
	likertLabels7 = []string{"Strongly Disagree", "Disagree", "Somewhat Disagree", "Neutral", "Somewhat Agree", "Agree", "Strongly Agree"}
)

// Question represents a single survey question with its type-specific
// parameters. Parameters are modeled as one optional payload per family so
// each question carries only the fields its type uses.
// #DATA_ASSUMPTION: ScoreWeight defaults to 1, allows emphasizing critical questions
// #NORMALIZATION_DECISION: Questions embedded in the survey document, never queried independently
type Question struct {
	ID          string       `bson:"id" json:"id"`
	Type        QuestionType `bson:"type" json:"type"`
	Title       string       `bson:"title" json:"title"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Order       int          `bson:"order" json:"order"`

	// Scoring
	// #BUSINESS_RULE: A question participates in scoring iff Scorable is set
	// AND ScoringCategory is assigned; one without the other is a data defect
	Scorable        bool               `bson:"scorable" json:"scorable"`
	ScoringCategory string             `bson:"scoring_category,omitempty" json:"scoring_category,omitempty"`
	ScoreWeight     float64            `bson:"score_weight,omitempty" json:"score_weight,omitempty"`
	OptionScores    map[string]float64 `bson:"option_scores,omitempty" json:"option_scores,omitempty"`

	// Type-specific parameter payloads
	Rating      *RatingParams      `bson:"rating,omitempty" json:"rating,omitempty"`
	Likert      *LikertParams      `bson:"likert,omitempty" json:"likert,omitempty"`
	Scale       *ScaleParams       `bson:"scale,omitempty" json:"scale,omitempty"`
	Choice      *ChoiceParams      `bson:"choice,omitempty" json:"choice,omitempty"`
	Checkbox    *CheckboxParams    `bson:"checkbox,omitempty" json:"checkbox,omitempty"`
	Matrix      *MatrixParams      `bson:"matrix,omitempty" json:"matrix,omitempty"`
	ConstantSum *ConstantSumParams `bson:"constant_sum,omitempty" json:"constant_sum,omitempty"`
	YesNo       *YesNoParams       `bson:"yes_no,omitempty" json:"yes_no,omitempty"`
}

// IsScorable returns true if the question participates in score aggregation
func (q *Question) IsScorable() bool {
	return q.Scorable && q.ScoringCategory != ""
}

// HasScoringMismatch returns true if exactly one of the scorable flag and
// the scoring category is set
func (q *Question) HasScoringMismatch() bool {
	return q.Scorable != (q.ScoringCategory != "")
}

// EffectiveWeight returns the score weight, defaulting to 1 when unset
func (q *Question) EffectiveWeight() float64 {
	if q.ScoreWeight == 0 {
		return 1
	}
	return q.ScoreWeight
}

// RatingScale returns the rating scale, defaulting to 5
func (q *Question) RatingScale() int {
	if q.Rating != nil && q.Rating.Scale > 0 {
		return q.Rating.Scale
	}
	return 5
}

// LikertPoints returns the likert point count, defaulting to 5
func (q *Question) LikertPoints() int {
	if q.Likert != nil && q.Likert.Points > 0 {
		return q.Likert.Points
	}
	return 5
}

// LikertLabels returns the custom likert labels when configured, otherwise
// the default label set for the question's point count. Point counts without
// a default set yield nil.
func (q *Question) LikertLabels() []string {
	if q.Likert != nil && len(q.Likert.Labels) > 0 {
		return q.Likert.Labels
	}
	switch q.LikertPoints() {
	case 5:
		return likertLabels5
	case 7:
		return likertLabels7
	}
	return nil
}

// ScaleMin returns the lower bound for opinion scale and slider questions
func (q *Question) ScaleMin() int {
	if q.Scale != nil {
		return q.Scale.Min
	}
	return 0
}

// ScaleMax returns the upper bound for opinion scale and slider questions.
// Defaults differ: opinion scales run 0-10, sliders 0-5.
func (q *Question) ScaleMax() int {
	if q.Scale != nil && q.Scale.Max != 0 {
		return q.Scale.Max
	}
	if q.Type == QuestionTypeSlider {
		return 5
	}
	return 10
}

// MaxSelections returns the checkbox selection cap, defaulting to 5
func (q *Question) MaxSelections() int {
	if q.Checkbox != nil && q.Checkbox.MaxSelections > 0 {
		return q.Checkbox.MaxSelections
	}
	return 5
}

// MatrixRows returns the matrix row count, defaulting to 1
func (q *Question) MatrixRows() int {
	if q.Matrix != nil && len(q.Matrix.RowLabels) > 0 {
		return len(q.Matrix.RowLabels)
	}
	return 1
}

// MatrixCols returns the matrix column count, defaulting to 5
func (q *Question) MatrixCols() int {
	if q.Matrix != nil && len(q.Matrix.ColLabels) > 0 {
		return len(q.Matrix.ColLabels)
	}
	return 5
}

// TotalPoints returns the constant sum point budget, defaulting to 100
func (q *Question) TotalPoints() int {
	if q.ConstantSum != nil && q.ConstantSum.TotalPoints > 0 {
		return q.ConstantSum.TotalPoints
	}
	return 100
}

// YesLabel returns the affirmative label, defaulting to "Yes"
func (q *Question) YesLabel() string {
	if q.YesNo != nil && q.YesNo.YesLabel != "" {
		return q.YesNo.YesLabel
	}
	return "Yes"
}

// NoLabel returns the negative label, defaulting to "No"
func (q *Question) NoLabel() string {
	if q.YesNo != nil && q.YesNo.NoLabel != "" {
		return q.YesNo.NoLabel
	}
	return "No"
}

// OptionList returns the explicit option values for option-list question
// types, or nil when the type has none configured
func (q *Question) OptionList() []string {
	switch q.Type {
	case QuestionTypeMultipleChoice, QuestionTypeDropdown, QuestionTypeImageChoice, QuestionTypeRanking:
		if q.Choice != nil {
			return q.Choice.Options
		}
	case QuestionTypeCheckbox:
		if q.Checkbox != nil {
			return q.Checkbox.Options
		}
	case QuestionTypeConstantSum:
		if q.ConstantSum != nil {
			return q.ConstantSum.Options
		}
	}
	return nil
}

// OptionCount returns the number of configured options, defaulting to 5
// for option-list types with no options recorded
func (q *Question) OptionCount() int {
	if opts := q.OptionList(); len(opts) > 0 {
		return len(opts)
	}
	return 5
}
