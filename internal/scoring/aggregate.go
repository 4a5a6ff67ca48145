package scoring

import (
	"fmt"
	"math"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// QuestionContribution records one answered, scorable question's weighted
// share of its category totals
type QuestionContribution struct {
	QuestionID    string              `json:"question_id"`
	QuestionTitle string              `json:"question_title"`
	QuestionType  models.QuestionType `json:"question_type"`
	CategoryID    string              `json:"category_id"`
	RawAnswer     models.AnswerValue  `json:"raw_answer"`

	Score           float64  `json:"score"`
	MaxPossible     float64  `json:"max_possible"`
	OptionScoreUsed *float64 `json:"option_score_used,omitempty"`

	Weight              float64 `json:"weight"`
	Contribution        float64 `json:"contribution"`
	MaxContribution     float64 `json:"max_contribution"`
	ContributionPercent float64 `json:"contribution_percent"`
}

// CategoryTotals accumulates the raw scoring totals for one category
type CategoryTotals struct {
	CategoryID    string  `json:"category_id"`
	RawTotal      float64 `json:"raw_total"`
	MaxTotal      float64 `json:"max_total"`
	AnsweredCount int     `json:"answered_count"`
}

// AggregateResult is the outcome of walking one response against a survey's
// questions: the per-question contributions, per-category running totals
// (one entry per configured category, in configuration order), and the
// data-quality errors collected along the way.
type AggregateResult struct {
	Contributions []QuestionContribution `json:"contributions"`
	Totals        []CategoryTotals       `json:"totals"`
	Errors        []string               `json:"errors"`
}

// Aggregate walks the survey's questions and folds each answered, scorable
// question into its category's totals.
//
// Unanswered questions are skipped entirely: they neither score zero nor
// appear in the contribution list. Questions with a scorable/category
// mismatch and questions referencing an unknown category are reported as
// collected errors and excluded.
func Aggregate(survey *models.Survey, response *models.Response) AggregateResult {
	result := AggregateResult{
		Contributions: []QuestionContribution{},
		Totals:        make([]CategoryTotals, 0, len(survey.ScoreConfig.Categories)),
		Errors:        []string{},
	}

	totalsIndex := make(map[string]*CategoryTotals, len(survey.ScoreConfig.Categories))
	for _, cat := range survey.ScoreConfig.Categories {
		result.Totals = append(result.Totals, CategoryTotals{CategoryID: cat.ID})
	}
	for i := range result.Totals {
		totalsIndex[result.Totals[i].CategoryID] = &result.Totals[i]
	}

	for i := range survey.Questions {
		q := &survey.Questions[i]

		if q.HasScoringMismatch() {
			result.Errors = append(result.Errors,
				fmt.Sprintf("question %s: scorable flag and scoring category must be set together", q.ID))
			continue
		}
		if !q.IsScorable() {
			continue
		}

		answer, ok := response.Answer(q.ID)
		if !ok || !answer.IsAnswered() {
			continue
		}

		totals, ok := totalsIndex[q.ScoringCategory]
		if !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("question %s references unknown scoring category %q", q.ID, q.ScoringCategory))
			continue
		}

		scored := ScoreAnswer(q, answer)
		weight := q.EffectiveWeight()
		contribution := scored.Score * weight
		maxContribution := scored.MaxPossible * weight

		percent := 0.0
		if maxContribution > 0 {
			percent = math.Round(contribution / maxContribution * 100)
		}

		result.Contributions = append(result.Contributions, QuestionContribution{
			QuestionID:          q.ID,
			QuestionTitle:       q.Title,
			QuestionType:        q.Type,
			CategoryID:          q.ScoringCategory,
			RawAnswer:           answer,
			Score:               scored.Score,
			MaxPossible:         scored.MaxPossible,
			OptionScoreUsed:     scored.OptionScoreUsed,
			Weight:              weight,
			Contribution:        contribution,
			MaxContribution:     maxContribution,
			ContributionPercent: percent,
		})

		totals.RawTotal += contribution
		totals.MaxTotal += maxContribution
		totals.AnsweredCount++
	}

	return result
}
