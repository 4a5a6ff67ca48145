package analytics

import (
	"sort"
	"time"

	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/scoring"
)

// TrendGranularity selects the calendar bucket size for the index trend
type TrendGranularity string

const (
	GranularityDaily   TrendGranularity = "daily"
	GranularityWeekly  TrendGranularity = "weekly"
	GranularityMonthly TrendGranularity = "monthly"
)

// ParseGranularity validates a granularity query value. Empty defaults to
// weekly.
func ParseGranularity(s string) (TrendGranularity, error) {
	switch TrendGranularity(s) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return TrendGranularity(s), nil
	case "":
		return GranularityWeekly, nil
	}
	return "", models.ErrInvalidGranularity
}

// TrendPoint is one calendar bucket of the index trend
type TrendPoint struct {
	Period        string    `json:"period"`
	Start         time.Time `json:"start"`
	ResponseCount int       `json:"response_count"`
	ScoredCount   int       `json:"scored_count"`
	AverageScore  *float64  `json:"average_score,omitempty"`
}

// IndexTrend is the survey's average index score over calendar time
type IndexTrend struct {
	SurveyID    string           `json:"survey_id"`
	Granularity TrendGranularity `json:"granularity"`
	Points      []TrendPoint     `json:"points"`
	ComputedAt  time.Time        `json:"computed_at"`
}

// ComputeIndexTrend buckets responses by completion (or start) time and
// averages the index score per bucket. Responses with no recorded timestamp
// are excluded. Points come back chronologically sorted.
func ComputeIndexTrend(survey *models.Survey, responses []models.Response, granularity TrendGranularity) *IndexTrend {
	trend := &IndexTrend{
		SurveyID:    survey.ID.Hex(),
		Granularity: granularity,
		Points:      []TrendPoint{},
		ComputedAt:  time.Now().UTC(),
	}

	buckets := make(map[string]*TrendPoint)
	scores := make(map[string][]float64)
	for i := range responses {
		ts, ok := responses[i].Timestamp()
		if !ok {
			continue
		}
		start := bucketStart(ts.UTC(), granularity)
		key := periodLabel(start, granularity)

		point, exists := buckets[key]
		if !exists {
			point = &TrendPoint{Period: key, Start: start}
			buckets[key] = point
		}
		point.ResponseCount++

		if s := scoring.OverallIndexScore(survey, &responses[i]); s != nil {
			point.ScoredCount++
			scores[key] = append(scores[key], *s)
		}
	}

	for key, point := range buckets {
		point.AverageScore = meanOf(scores[key])
		trend.Points = append(trend.Points, *point)
	}
	sort.Slice(trend.Points, func(i, j int) bool {
		return trend.Points[i].Start.Before(trend.Points[j].Start)
	})

	return trend
}

// bucketStart truncates a timestamp to the start of its calendar bucket.
// #BUSINESS_RULE: Weeks start on Monday
func bucketStart(t time.Time, granularity TrendGranularity) time.Time {
	switch granularity {
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityWeekly:
		daysBack := (int(t.Weekday()) + 6) % 7
		monday := t.AddDate(0, 0, -daysBack)
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// periodLabel formats the bucket key: day and week buckets as a date, the
// week keyed by its Monday, month buckets as year-month
func periodLabel(start time.Time, granularity TrendGranularity) string {
	if granularity == GranularityMonthly {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// VersionTrendPoint is one scoring configuration version's aggregate
type VersionTrendPoint struct {
	VersionID     string   `json:"version_id,omitempty"`
	Version       int      `json:"version"`
	Label         string   `json:"label"`
	ResponseCount int      `json:"response_count"`
	ScoredCount   int      `json:"scored_count"`
	AverageScore  *float64 `json:"average_score,omitempty"`
}

// VersionTrends tracks the index score across scoring configuration
// versions
type VersionTrends struct {
	SurveyID   string              `json:"survey_id"`
	Points     []VersionTrendPoint `json:"points"`
	ComputedAt time.Time           `json:"computed_at"`
}

// ComputeVersionTrends produces one point per scoring configuration
// version, ordered by version number. Responses tagged with an unknown or
// absent version fall outside every point. With no version records at all,
// a single synthetic point covers the whole response set.
func ComputeVersionTrends(survey *models.Survey, responses []models.Response, versions []models.ScoreConfigVersion) *VersionTrends {
	trends := &VersionTrends{
		SurveyID:   survey.ID.Hex(),
		Points:     []VersionTrendPoint{},
		ComputedAt: time.Now().UTC(),
	}

	if len(versions) == 0 {
		scores := overallScores(survey, responses)
		trends.Points = append(trends.Points, VersionTrendPoint{
			Label:         "all responses",
			ResponseCount: len(responses),
			ScoredCount:   len(scores),
			AverageScore:  meanOf(scores),
		})
		return trends
	}

	grouped := make(map[string][]models.Response)
	for i := range responses {
		if responses[i].ScoreConfigVersionID == nil {
			continue
		}
		key := responses[i].ScoreConfigVersionID.Hex()
		grouped[key] = append(grouped[key], responses[i])
	}

	ordered := make([]models.ScoreConfigVersion, len(versions))
	copy(ordered, versions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })

	for _, v := range ordered {
		group := grouped[v.ID.Hex()]
		scores := overallScores(survey, group)
		trends.Points = append(trends.Points, VersionTrendPoint{
			VersionID:     v.ID.Hex(),
			Version:       v.Version,
			Label:         v.DisplayLabel(),
			ResponseCount: len(group),
			ScoredCount:   len(scores),
			AverageScore:  meanOf(scores),
		})
	}

	return trends
}
