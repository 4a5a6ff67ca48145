package analytics

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// CategoryOverview is one scoring category's place in the domain picture
type CategoryOverview struct {
	CategoryID     string  `json:"category_id"`
	Name           string  `json:"name"`
	Weight         float64 `json:"weight"`
	ResponseCount  int     `json:"response_count"`
	AverageScore   float64 `json:"average_score"`
	MinScore       float64 `json:"min_score"`
	MaxScore       float64 `json:"max_score"`
	PercentOfTotal float64 `json:"percent_of_total"`
}

// DomainOverview ranks the survey's scoring categories by configured
// importance and observed score
type DomainOverview struct {
	SurveyID   string             `json:"survey_id"`
	Categories []CategoryOverview `json:"categories"`
	ComputedAt time.Time          `json:"computed_at"`
}

// ComputeDomainOverview summarizes every configured category over the
// response set. A category's weighted share is its (average x weight) slice
// of the weighted total, so heavy, high-scoring domains dominate the
// picture. Categories sort by weight, then by average score, both
// descending.
func ComputeDomainOverview(survey *models.Survey, responses []models.Response) *DomainOverview {
	overview := &DomainOverview{
		SurveyID:   survey.ID.Hex(),
		Categories: []CategoryOverview{},
		ComputedAt: time.Now().UTC(),
	}

	perCategory := make(map[string][]float64)
	for i := range responses {
		for categoryID, score := range categoryScores(survey, &responses[i]) {
			perCategory[categoryID] = append(perCategory[categoryID], score)
		}
	}

	weightedTotal := 0.0
	for _, category := range survey.ScoreConfig.Categories {
		scores := perCategory[category.ID]

		entry := CategoryOverview{
			CategoryID:    category.ID,
			Name:          category.Name,
			Weight:        category.Weight,
			ResponseCount: len(scores),
		}
		if len(scores) > 0 {
			if v, err := stats.Mean(scores); err == nil {
				entry.AverageScore = round1(v)
			}
			if v, err := stats.Min(scores); err == nil {
				entry.MinScore = v
			}
			if v, err := stats.Max(scores); err == nil {
				entry.MaxScore = v
			}
			weightedTotal += entry.AverageScore * category.Weight
		}

		overview.Categories = append(overview.Categories, entry)
	}

	if weightedTotal > 0 {
		for i := range overview.Categories {
			c := &overview.Categories[i]
			c.PercentOfTotal = round1(c.AverageScore * c.Weight / weightedTotal * 100)
		}
	}

	sort.Slice(overview.Categories, func(i, j int) bool {
		if overview.Categories[i].Weight != overview.Categories[j].Weight {
			return overview.Categories[i].Weight > overview.Categories[j].Weight
		}
		return overview.Categories[i].AverageScore > overview.Categories[j].AverageScore
	})

	return overview
}
