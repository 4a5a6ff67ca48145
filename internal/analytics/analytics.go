// Package analytics computes the dashboard views over a survey's response
// set: participation, score distributions, question summaries, manager
// rollups, trends, version comparisons, and the domain overview.
//
// Every view is a pure recomputation over the responses it is handed; the
// package holds no state and reads nothing itself. Editing categories or
// ranges on the survey retroactively changes every derived view because
// nothing here is ever persisted.
package analytics

import (
	"math"

	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/scoring"
)

// round1 rounds to one decimal place. Rates and percentages are reported at
// this precision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places, used for summary statistics
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentage returns part/whole as a percentage, 0 when whole is 0
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

// overallScores computes the overall index score of every response that
// yields one. Responses without a score (scoring disabled, no categories,
// nothing scorable answered) are excluded, not zeroed.
func overallScores(survey *models.Survey, responses []models.Response) []float64 {
	scores := make([]float64, 0, len(responses))
	for i := range responses {
		if s := scoring.OverallIndexScore(survey, &responses[i]); s != nil {
			scores = append(scores, *s)
		}
	}
	return scores
}

// categoryScores returns each response's per-category normalized scores,
// keyed by category ID. Categories the response never answered are omitted
// so averages are not dragged toward zero by unanswered dimensions.
func categoryScores(survey *models.Survey, response *models.Response) map[string]float64 {
	if !survey.ScoringEnabled() || !survey.ScoreConfig.HasCategories() {
		return nil
	}
	trace := scoring.BuildTrace(survey, response)
	scores := make(map[string]float64, len(trace.Categories))
	for _, c := range trace.Categories {
		if c.AnsweredCount > 0 {
			scores[c.CategoryID] = c.NormalizedScore
		}
	}
	return scores
}

// meanOf returns the rounded mean of the values, nil when empty
func meanOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := round1(sum / float64(len(values)))
	return &mean
}
