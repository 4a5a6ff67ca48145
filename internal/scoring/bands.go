package scoring

import "math"

// IndexBand is one tier of the canonical five-tier index scale used for all
// cross-survey analytics. It is deliberately a different type from the
// survey-authored models.ScoreRange: authored ranges are respondent-facing
// and per-survey, canonical bands are fixed and comparable everywhere.
// #BUSINESS_RULE: Distribution, trend, and rollup views use only this
// taxonomy; authored ranges never feed them
type IndexBand struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// The fixed taxonomy. IDs are stable and double as dashboard keys.
var indexBands = []IndexBand{
	{ID: "0-20", Label: "Very Low", Color: "#ef4444", Min: 0, Max: 20},
	{ID: "21-40", Label: "Low", Color: "#f97316", Min: 21, Max: 40},
	{ID: "41-60", Label: "Moderate", Color: "#facc15", Min: 41, Max: 60},
	{ID: "61-80", Label: "Good", Color: "#84cc16", Min: 61, Max: 80},
	{ID: "81-100", Label: "Excellent", Color: "#22c55e", Min: 81, Max: 100},
}

// IndexBands returns the canonical taxonomy in ascending score order
func IndexBands() []IndexBand {
	bands := make([]IndexBand, len(indexBands))
	copy(bands, indexBands)
	return bands
}

// ResolveIndexBand maps a normalized score onto the canonical taxonomy.
// The score is rounded to the nearest integer and clamped to 0-100 first so
// every input lands in exactly one band.
func ResolveIndexBand(score float64) IndexBand {
	s := math.Round(score)
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	for _, band := range indexBands {
		if s >= band.Min && s <= band.Max {
			return band
		}
	}
	return indexBands[len(indexBands)-1]
}
