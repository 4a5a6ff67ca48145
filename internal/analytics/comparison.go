package analytics

import (
	"time"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// Dimension trend flags
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// Overall comparison labels
const (
	ComparisonPositive = "positive"
	ComparisonNegative = "negative"
	ComparisonMixed    = "mixed"
	ComparisonStable   = "stable"
)

// DimensionComparison is one category's movement between two scoring
// configuration versions
type DimensionComparison struct {
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	BeforeScore   *float64 `json:"before_score,omitempty"`
	AfterScore    *float64 `json:"after_score,omitempty"`
	Delta         float64  `json:"delta"`
	PercentChange *float64 `json:"percent_change,omitempty"`
	Trend         string   `json:"trend"`
}

// BeforeAfterComparison contrasts the response populations of two scoring
// configuration versions, dimension by dimension
type BeforeAfterComparison struct {
	SurveyID        string                `json:"survey_id"`
	BeforeVersionID string                `json:"before_version_id"`
	AfterVersionID  string                `json:"after_version_id"`
	BeforeResponses int                   `json:"before_responses"`
	AfterResponses  int                   `json:"after_responses"`
	Dimensions      []DimensionComparison `json:"dimensions"`
	OverallTrend    string                `json:"overall_trend"`
	ComputedAt      time.Time             `json:"computed_at"`
}

// CompareVersions contrasts two response populations category by category.
// #BUSINESS_RULE: A dimension trends up when its average moves by more than
// one point, down below minus one; the band in between is neutral, so noise
// never reads as movement
func CompareVersions(survey *models.Survey, beforeID, afterID string, before, after []models.Response) *BeforeAfterComparison {
	comparison := &BeforeAfterComparison{
		SurveyID:        survey.ID.Hex(),
		BeforeVersionID: beforeID,
		AfterVersionID:  afterID,
		BeforeResponses: len(before),
		AfterResponses:  len(after),
		Dimensions:      []DimensionComparison{},
		ComputedAt:      time.Now().UTC(),
	}

	beforeAvgs := categoryAverages(survey, before)
	afterAvgs := categoryAverages(survey, after)

	ups, downs := 0, 0
	for _, category := range survey.ScoreConfig.Categories {
		dim := DimensionComparison{
			CategoryID: category.ID,
			Name:       category.Name,
			Trend:      TrendNeutral,
		}

		b, hasBefore := beforeAvgs[category.ID]
		a, hasAfter := afterAvgs[category.ID]
		if hasBefore {
			dim.BeforeScore = &b
		}
		if hasAfter {
			dim.AfterScore = &a
		}

		if hasBefore && hasAfter {
			dim.Delta = round1(a - b)
			if b != 0 {
				pct := round1((a - b) / b * 100)
				dim.PercentChange = &pct
			}
			switch {
			case dim.Delta > 1:
				dim.Trend = TrendUp
				ups++
			case dim.Delta < -1:
				dim.Trend = TrendDown
				downs++
			}
		}

		comparison.Dimensions = append(comparison.Dimensions, dim)
	}

	comparison.OverallTrend = overallTrend(ups, downs)
	return comparison
}

// categoryAverages computes each category's average normalized score over
// the responses that answered it
func categoryAverages(survey *models.Survey, responses []models.Response) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range responses {
		for categoryID, score := range categoryScores(survey, &responses[i]) {
			sums[categoryID] += score
			counts[categoryID]++
		}
	}

	averages := make(map[string]float64, len(sums))
	for categoryID, sum := range sums {
		averages[categoryID] = round1(sum / float64(counts[categoryID]))
	}
	return averages
}

// overallTrend rolls the dimension flags into one label by dominant count
func overallTrend(ups, downs int) string {
	switch {
	case ups > downs:
		return ComparisonPositive
	case downs > ups:
		return ComparisonNegative
	case ups > 0:
		return ComparisonMixed
	default:
		return ComparisonStable
	}
}
