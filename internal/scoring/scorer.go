// Package scoring computes normalized scores for single survey responses:
// per-answer scores, weighted category aggregation, band resolution, and the
// full diagnostic trace. Everything in this package is a pure function of
// the survey definition and the response; nothing is cached or persisted.
package scoring

import (
	"strconv"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// AnswerScore is the scored outcome of one answer against one question
type AnswerScore struct {
	Score           float64  `json:"score"`
	MaxPossible     float64  `json:"max_possible"`
	OptionScoreUsed *float64 `json:"option_score_used,omitempty"`
}

// MaxPossibleScore returns the score ceiling for a question, derived from
// its type and parameters. Structural types have no ceiling and return 0.
func MaxPossibleScore(q *models.Question) float64 {
	switch q.Type {
	case models.QuestionTypeRating:
		return float64(q.RatingScale())
	case models.QuestionTypeNPS:
		return 10
	case models.QuestionTypeLikert:
		return float64(q.LikertPoints())
	case models.QuestionTypeOpinionScale, models.QuestionTypeSlider:
		return float64(q.ScaleMax() - q.ScaleMin())
	case models.QuestionTypeMultipleChoice, models.QuestionTypeDropdown, models.QuestionTypeImageChoice:
		return float64(q.OptionCount())
	case models.QuestionTypeCheckbox:
		return float64(q.MaxSelections())
	case models.QuestionTypeYesNo:
		return 1
	case models.QuestionTypeMatrix:
		return float64(q.MatrixRows() * q.MatrixCols())
	case models.QuestionTypeRanking:
		return float64(q.OptionCount())
	case models.QuestionTypeConstantSum:
		return float64(q.TotalPoints())
	case models.QuestionTypeNumber:
		return 10
	}
	return 0
}

// ScoreAnswer resolves the numeric score for one answer. Resolution order:
// an optionScores entry keyed by the answer text, then the answer text
// parsed as a number, then (multiple choice and dropdown only) the 1-based
// position of the answer in the option list, then 0.
//
// #BUSINESS_RULE: Only the first element of a list answer is consulted,
// including for checkbox questions. Summing or maxing across selections
// would change recorded scores retroactively, so the behavior stays.
func ScoreAnswer(q *models.Question, answer models.AnswerValue) AnswerScore {
	result := AnswerScore{MaxPossible: MaxPossibleScore(q)}

	text := answer.First()
	if text == "" {
		return result
	}

	if v, ok := q.OptionScores[text]; ok {
		result.Score = v
		result.OptionScoreUsed = &v
		return result
	}

	if n, err := strconv.ParseFloat(text, 64); err == nil {
		result.Score = n
		return result
	}

	if q.Type == models.QuestionTypeMultipleChoice || q.Type == models.QuestionTypeDropdown {
		for i, opt := range q.OptionList() {
			if opt == text {
				result.Score = float64(i + 1)
				return result
			}
		}
	}

	return result
}
