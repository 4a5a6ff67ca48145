package analytics

import (
	"sort"
	"time"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// ManagerRollup is one manager's team view of the survey
type ManagerRollup struct {
	ManagerID          string      `json:"manager_id"`
	ManagerName        string      `json:"manager_name"`
	ResponseCount      int         `json:"response_count"`
	CompletedResponses int         `json:"completed_responses"`
	CompletionRate     float64     `json:"completion_rate"`
	AverageScore       *float64    `json:"average_score,omitempty"`
	Bands              []BandSlice `json:"bands"`
}

// ManagerAnalytics groups the survey's responses by the manager recorded in
// response metadata
type ManagerAnalytics struct {
	SurveyID       string          `json:"survey_id"`
	TotalResponses int             `json:"total_responses"`
	WithManager    int             `json:"with_manager"`
	Managers       []ManagerRollup `json:"managers"`
	ComputedAt     time.Time       `json:"computed_at"`
}

// ComputeManagerRollups aggregates responses per manager. Responses without
// manager metadata are excluded from the rollups but still counted in the
// total. Managers sort by team size descending, ID as the tiebreaker.
func ComputeManagerRollups(survey *models.Survey, responses []models.Response) *ManagerAnalytics {
	result := &ManagerAnalytics{
		SurveyID:       survey.ID.Hex(),
		TotalResponses: len(responses),
		Managers:       []ManagerRollup{},
		ComputedAt:     time.Now().UTC(),
	}

	grouped := make(map[string][]models.Response)
	names := make(map[string]string)
	for i := range responses {
		id, ok := responses[i].ManagerID()
		if !ok {
			continue
		}
		result.WithManager++
		grouped[id] = append(grouped[id], responses[i])
		if _, seen := names[id]; !seen {
			names[id] = responses[i].ManagerName()
		}
	}

	for id, team := range grouped {
		rollup := ManagerRollup{
			ManagerID:     id,
			ManagerName:   names[id],
			ResponseCount: len(team),
		}
		for i := range team {
			if team[i].IsComplete() {
				rollup.CompletedResponses++
			}
		}
		rollup.CompletionRate = percentage(rollup.CompletedResponses, rollup.ResponseCount)

		scores := overallScores(survey, team)
		rollup.AverageScore = meanOf(scores)
		rollup.Bands = bandSlices(scores)

		result.Managers = append(result.Managers, rollup)
	}

	sort.Slice(result.Managers, func(i, j int) bool {
		if result.Managers[i].ResponseCount != result.Managers[j].ResponseCount {
			return result.Managers[i].ResponseCount > result.Managers[j].ResponseCount
		}
		return result.Managers[i].ManagerID < result.Managers[j].ManagerID
	})

	return result
}
