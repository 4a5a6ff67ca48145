package analytics

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/scoring"
)

// DistributionBucket is one numeric score range with its occupancy
type DistributionBucket struct {
	Range      string  `json:"range"`
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ScoreStatistics summarizes the scored population
type ScoreStatistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// IndexDistribution buckets every scored response into the five fixed
// index ranges
type IndexDistribution struct {
	SurveyID        string               `json:"survey_id"`
	TotalResponses  int                  `json:"total_responses"`
	ScoredResponses int                  `json:"scored_responses"`
	Buckets         []DistributionBucket `json:"buckets"`
	Statistics      *ScoreStatistics     `json:"statistics,omitempty"`
	ComputedAt      time.Time            `json:"computed_at"`
}

// ComputeIndexDistribution buckets the overall index scores into the fixed
// band ranges and attaches summary statistics. Unscored responses appear in
// neither; with zero scored responses the buckets come back zero-filled and
// statistics nil.
func ComputeIndexDistribution(survey *models.Survey, responses []models.Response) *IndexDistribution {
	scores := overallScores(survey, responses)

	dist := &IndexDistribution{
		SurveyID:        survey.ID.Hex(),
		TotalResponses:  len(responses),
		ScoredResponses: len(scores),
		ComputedAt:      time.Now().UTC(),
	}

	counts := make(map[string]int)
	for _, s := range scores {
		counts[scoring.ResolveIndexBand(s).ID]++
	}

	for _, band := range scoring.IndexBands() {
		dist.Buckets = append(dist.Buckets, DistributionBucket{
			Range:      band.ID,
			Label:      band.Label,
			Color:      band.Color,
			Count:      counts[band.ID],
			Percentage: percentage(counts[band.ID], len(scores)),
		})
	}

	dist.Statistics = computeStatistics(scores)
	return dist
}

// computeStatistics derives summary statistics over the scores, nil when
// there are none
func computeStatistics(scores []float64) *ScoreStatistics {
	if len(scores) == 0 {
		return nil
	}

	s := &ScoreStatistics{}
	if v, err := stats.Min(scores); err == nil {
		s.Min = round2(v)
	}
	if v, err := stats.Max(scores); err == nil {
		s.Max = round2(v)
	}
	if v, err := stats.Mean(scores); err == nil {
		s.Mean = round2(v)
	}
	if v, err := stats.Median(scores); err == nil {
		s.Median = round2(v)
	}
	if v, err := stats.StandardDeviation(scores); err == nil {
		s.StdDev = round2(v)
	}
	return s
}

// BandSlice is one canonical index band with its share of the scored
// population
type BandSlice struct {
	Band       scoring.IndexBand `json:"band"`
	Count      int               `json:"count"`
	Percentage float64           `json:"percentage"`
}

// BandDistribution is the scored population cut by the canonical band
// taxonomy
type BandDistribution struct {
	SurveyID        string      `json:"survey_id"`
	TotalResponses  int         `json:"total_responses"`
	ScoredResponses int         `json:"scored_responses"`
	Bands           []BandSlice `json:"bands"`
	ComputedAt      time.Time   `json:"computed_at"`
}

// ComputeBandDistribution cuts the scored responses by index band.
// Percentages are over the scored count, not the total.
func ComputeBandDistribution(survey *models.Survey, responses []models.Response) *BandDistribution {
	scores := overallScores(survey, responses)

	dist := &BandDistribution{
		SurveyID:        survey.ID.Hex(),
		TotalResponses:  len(responses),
		ScoredResponses: len(scores),
		Bands:           bandSlices(scores),
		ComputedAt:      time.Now().UTC(),
	}
	return dist
}

// bandSlices buckets scores into the full band taxonomy, zero-count bands
// included
func bandSlices(scores []float64) []BandSlice {
	counts := make(map[string]int)
	for _, s := range scores {
		counts[scoring.ResolveIndexBand(s).ID]++
	}

	slices := make([]BandSlice, 0, 5)
	for _, band := range scoring.IndexBands() {
		slices = append(slices, BandSlice{
			Band:       band,
			Count:      counts[band.ID],
			Percentage: percentage(counts[band.ID], len(scores)),
		})
	}
	return slices
}
