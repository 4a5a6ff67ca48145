package analytics

import (
	"strconv"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// OptionCount is one canonical answer option with its pick count
type OptionCount struct {
	Option     string  `json:"option"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QuestionStats holds the numeric summary for questions whose answers are
// numbers
type QuestionStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// QuestionSummary is the per-question analytics row
type QuestionSummary struct {
	QuestionID     string              `json:"question_id"`
	Title          string              `json:"title"`
	Type           models.QuestionType `json:"type"`
	AnsweredCount  int                 `json:"answered_count"`
	CompletionRate float64             `json:"completion_rate"`
	Stats          *QuestionStats      `json:"stats,omitempty"`
	Options        []OptionCount       `json:"options,omitempty"`
}

// QuestionAnalytics is the full per-question breakdown of a survey
type QuestionAnalytics struct {
	SurveyID       string            `json:"survey_id"`
	TotalResponses int               `json:"total_responses"`
	Questions      []QuestionSummary `json:"questions"`
	ComputedAt     time.Time         `json:"computed_at"`
}

// ComputeQuestionSummaries builds the per-question breakdown. Structural
// questions never appear. Option distributions enumerate the CANONICAL
// option set, so options nobody picked still show with a zero count.
func ComputeQuestionSummaries(survey *models.Survey, responses []models.Response) *QuestionAnalytics {
	result := &QuestionAnalytics{
		SurveyID:       survey.ID.Hex(),
		TotalResponses: len(responses),
		Questions:      []QuestionSummary{},
		ComputedAt:     time.Now().UTC(),
	}

	for i := range survey.Questions {
		q := &survey.Questions[i]
		if q.Type.IsStructural() {
			continue
		}
		result.Questions = append(result.Questions, summarizeQuestion(q, responses))
	}
	return result
}

func summarizeQuestion(q *models.Question, responses []models.Response) QuestionSummary {
	summary := QuestionSummary{
		QuestionID: q.ID,
		Title:      q.Title,
		Type:       q.Type,
	}

	var numeric []float64
	counts := make(map[string]int)
	for i := range responses {
		answer, ok := responses[i].Answer(q.ID)
		if !ok || !answer.IsAnswered() {
			continue
		}
		summary.AnsweredCount++

		// Multi-select answers increment every picked option, so per-option
		// percentages are shares of respondents, not of picks
		for _, v := range answer.Values() {
			if v != "" {
				counts[v]++
			}
		}

		if q.Type.IsNumeric() {
			if n, err := strconv.ParseFloat(answer.First(), 64); err == nil {
				numeric = append(numeric, n)
			}
		}
	}

	summary.CompletionRate = percentage(summary.AnsweredCount, len(responses))
	summary.Stats = numericStats(numeric)

	if options := canonicalOptions(q); len(options) > 0 {
		summary.Options = make([]OptionCount, 0, len(options))
		for _, opt := range options {
			summary.Options = append(summary.Options, OptionCount{
				Option:     opt,
				Count:      counts[opt],
				Percentage: percentage(counts[opt], summary.AnsweredCount),
			})
		}
	}
	return summary
}

// numericStats summarizes parseable numeric answers, nil when there are none
func numericStats(values []float64) *QuestionStats {
	if len(values) == 0 {
		return nil
	}
	s := &QuestionStats{}
	if v, err := stats.Mean(values); err == nil {
		s.Average = round2(v)
	}
	if v, err := stats.Min(values); err == nil {
		s.Min = round2(v)
	}
	if v, err := stats.Max(values); err == nil {
		s.Max = round2(v)
	}
	return s
}

// canonicalOptions resolves the full set of answers a question admits.
// Explicitly configured options always win; scale types enumerate their
// numeric range; types with an open answer space (text, number, slider,
// matrix, date) have none.
func canonicalOptions(q *models.Question) []string {
	if opts := q.OptionList(); len(opts) > 0 {
		return opts
	}

	switch q.Type {
	case models.QuestionTypeRating:
		return numericRange(1, q.RatingScale())
	case models.QuestionTypeNPS:
		return numericRange(0, 10)
	case models.QuestionTypeYesNo:
		return []string{q.YesLabel(), q.NoLabel()}
	case models.QuestionTypeLikert:
		if labels := q.LikertLabels(); labels != nil {
			return labels
		}
		return numericRange(1, q.LikertPoints())
	case models.QuestionTypeOpinionScale:
		return numericRange(q.ScaleMin(), q.ScaleMax())
	}
	return nil
}

// numericRange enumerates the integers from min to max as answer strings
func numericRange(min, max int) []string {
	if max < min {
		return nil
	}
	options := make([]string, 0, max-min+1)
	for v := min; v <= max; v++ {
		options = append(options, strconv.Itoa(v))
	}
	return options
}
