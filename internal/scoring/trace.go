package scoring

import (
	"math"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// CategoryBreakdown is the normalized view of one category within a single
// response, as exposed by the trace
type CategoryBreakdown struct {
	CategoryID         string    `json:"category_id"`
	Name               string    `json:"name"`
	Weight             float64   `json:"weight"`
	RawTotal           float64   `json:"raw_total"`
	MaxTotal           float64   `json:"max_total"`
	AnsweredCount      int       `json:"answered_count"`
	NormalizedScore    float64   `json:"normalized_score"`
	MaxConfiguredScore float64   `json:"max_configured_score"`
	Band               IndexBand `json:"band"`
}

// OverallScore is a response's overall index score with both band readings:
// the canonical band for analytics and the authored range for display
type OverallScore struct {
	Score        float64            `json:"score"`
	Band         IndexBand          `json:"band"`
	MatchedRange *models.ScoreRange `json:"matched_range,omitempty"`
}

// ScoringTrace is the complete diagnostic decomposition of one response's
// score. It is read-only and reproducible: identical inputs yield identical
// traces.
type ScoringTrace struct {
	SurveyID       string                 `json:"survey_id"`
	ResponseID     string                 `json:"response_id"`
	ScoringEnabled bool                   `json:"scoring_enabled"`
	Contributions  []QuestionContribution `json:"contributions"`
	Categories     []CategoryBreakdown    `json:"categories"`
	Overall        *OverallScore          `json:"overall,omitempty"`
	Errors         []string               `json:"errors"`
}

// CategoryScore is one category's normalized score for respondent display,
// labeled with the survey's own authored range
type CategoryScore struct {
	CategoryID   string             `json:"category_id"`
	Name         string             `json:"name"`
	Score        float64            `json:"score"`
	MatchedRange *models.ScoreRange `json:"matched_range,omitempty"`
}

// ScoreResult is the respondent-facing projection of a scored response.
// It resolves bands exclusively against the survey's authored ranges; the
// canonical analytics taxonomy never appears here.
type ScoreResult struct {
	SurveyID       string             `json:"survey_id"`
	ResponseID     string             `json:"response_id"`
	ScoringEnabled bool               `json:"scoring_enabled"`
	Score          *float64           `json:"score,omitempty"`
	MatchedRange   *models.ScoreRange `json:"matched_range,omitempty"`
	Categories     []CategoryScore    `json:"categories"`
	Errors         []string           `json:"errors"`
}

// breakdown runs aggregation and normalization once. Every public entry
// point (trace, respondent result, analytics overall) builds on this one
// code path so there is no separate debug algorithm to drift.
func breakdown(survey *models.Survey, response *models.Response) (AggregateResult, []CategoryBreakdown, *float64) {
	agg := Aggregate(survey, response)
	maxConfigured := survey.ScoreConfig.MaxConfiguredScore()

	breakdowns := make([]CategoryBreakdown, 0, len(agg.Totals))
	answered := 0
	for _, totals := range agg.Totals {
		category := survey.ScoreConfig.CategoryByID(totals.CategoryID)

		normalized := 0.0
		if totals.MaxTotal > 0 {
			normalized = math.Round(totals.RawTotal / totals.MaxTotal * maxConfigured)
		}

		breakdowns = append(breakdowns, CategoryBreakdown{
			CategoryID:         totals.CategoryID,
			Name:               category.Name,
			Weight:             category.Weight,
			RawTotal:           totals.RawTotal,
			MaxTotal:           totals.MaxTotal,
			AnsweredCount:      totals.AnsweredCount,
			NormalizedScore:    normalized,
			MaxConfiguredScore: maxConfigured,
			Band:               ResolveIndexBand(normalized),
		})
		answered += totals.AnsweredCount
	}

	// No categories or no answered scorable questions means no overall
	// score, not a zero score.
	if len(breakdowns) == 0 || answered == 0 {
		return agg, breakdowns, nil
	}

	sum := 0.0
	for _, b := range breakdowns {
		sum += b.NormalizedScore
	}
	// #BUSINESS_RULE: The overall index is the unweighted mean of category
	// scores. Category weights shape question contributions within a
	// category and the domain overview, not the overall index.
	overall := math.Round(sum / float64(len(breakdowns)))
	return agg, breakdowns, &overall
}

// configErrors collects the configuration-level data-quality errors that
// accompany every scored result
func configErrors(survey *models.Survey) []string {
	var errs []string
	if !survey.ScoreConfig.HasCategories() {
		errs = append(errs, "no scoring categories configured")
	}
	if len(survey.ScoreConfig.Ranges) == 0 {
		errs = append(errs, "no score ranges configured")
	}
	return errs
}

// BuildTrace assembles the complete diagnostic breakdown of one response.
// With scoring disabled or no categories configured it returns a
// structurally valid empty trace carrying an explanatory error entry.
func BuildTrace(survey *models.Survey, response *models.Response) *ScoringTrace {
	trace := &ScoringTrace{
		SurveyID:       survey.ID.Hex(),
		ResponseID:     response.ID.Hex(),
		ScoringEnabled: survey.ScoringEnabled(),
		Contributions:  []QuestionContribution{},
		Categories:     []CategoryBreakdown{},
		Errors:         []string{},
	}

	if !survey.ScoringEnabled() {
		trace.Errors = append(trace.Errors, "scoring is not enabled for this survey")
		return trace
	}
	if !survey.ScoreConfig.HasCategories() {
		trace.Errors = append(trace.Errors, configErrors(survey)...)
		return trace
	}

	agg, breakdowns, overall := breakdown(survey, response)
	trace.Contributions = agg.Contributions
	trace.Categories = breakdowns
	trace.Errors = append(trace.Errors, configErrors(survey)...)
	trace.Errors = append(trace.Errors, agg.Errors...)

	if overall != nil {
		trace.Overall = &OverallScore{
			Score:        *overall,
			Band:         ResolveIndexBand(*overall),
			MatchedRange: survey.ScoreConfig.FindRange(*overall, ""),
		}
	}

	return trace
}

// BuildScoreResult projects the same computation for respondent display:
// overall and per-category scores labeled with the survey's authored ranges
func BuildScoreResult(survey *models.Survey, response *models.Response) *ScoreResult {
	result := &ScoreResult{
		SurveyID:       survey.ID.Hex(),
		ResponseID:     response.ID.Hex(),
		ScoringEnabled: survey.ScoringEnabled(),
		Categories:     []CategoryScore{},
		Errors:         []string{},
	}

	if !survey.ScoringEnabled() {
		result.Errors = append(result.Errors, "scoring is not enabled for this survey")
		return result
	}
	if !survey.ScoreConfig.HasCategories() {
		result.Errors = append(result.Errors, configErrors(survey)...)
		return result
	}

	agg, breakdowns, overall := breakdown(survey, response)
	result.Errors = append(result.Errors, configErrors(survey)...)
	result.Errors = append(result.Errors, agg.Errors...)

	for _, b := range breakdowns {
		result.Categories = append(result.Categories, CategoryScore{
			CategoryID:   b.CategoryID,
			Name:         b.Name,
			Score:        b.NormalizedScore,
			MatchedRange: survey.ScoreConfig.FindRange(b.NormalizedScore, b.CategoryID),
		})
	}

	if overall != nil {
		result.Score = overall
		result.MatchedRange = survey.ScoreConfig.FindRange(*overall, "")
	}

	return result
}

// OverallIndexScore returns a response's overall index score, or nil when
// the response yields none (scoring disabled, no categories, or no answered
// scorable questions). The analytics views use this so every consumer
// shares one formula.
func OverallIndexScore(survey *models.Survey, response *models.Response) *float64 {
	if !survey.ScoringEnabled() || !survey.ScoreConfig.HasCategories() {
		return nil
	}
	_, _, overall := breakdown(survey, response)
	return overall
}
