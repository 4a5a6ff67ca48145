package analytics

import (
	"time"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// ParticipationMetrics summarizes how a survey's audience engaged with it
type ParticipationMetrics struct {
	SurveyID           string  `json:"survey_id"`
	TotalResponses     int     `json:"total_responses"`
	CompletedResponses int     `json:"completed_responses"`
	CompletionRate     float64 `json:"completion_rate"`

	// #DATA_ASSUMPTION: nil when no response carries a usable duration,
	// not zero; zero would read as instant completion
	AverageDurationSeconds *float64 `json:"average_duration_seconds,omitempty"`

	// Response rate requires the invite count; nil when the invitation
	// service never reported one
	InvitedCount *int     `json:"invited_count,omitempty"`
	ResponseRate *float64 `json:"response_rate,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}

// ComputeParticipation derives participation metrics over the response set.
// #BUSINESS_RULE: Responses lacking both a stored duration and a usable
// timestamp pair are excluded from the duration average, never counted as zero
func ComputeParticipation(survey *models.Survey, responses []models.Response) *ParticipationMetrics {
	metrics := &ParticipationMetrics{
		SurveyID:       survey.ID.Hex(),
		TotalResponses: len(responses),
		InvitedCount:   survey.InvitedCount,
		ComputedAt:     time.Now().UTC(),
	}

	durations := make([]float64, 0, len(responses))
	for i := range responses {
		if responses[i].IsComplete() {
			metrics.CompletedResponses++
		}
		if d, ok := responses[i].DurationSeconds(); ok {
			durations = append(durations, d)
		}
	}

	metrics.CompletionRate = percentage(metrics.CompletedResponses, metrics.TotalResponses)
	metrics.AverageDurationSeconds = meanOf(durations)

	if survey.InvitedCount != nil && *survey.InvitedCount > 0 {
		rate := round1(float64(metrics.TotalResponses) / float64(*survey.InvitedCount) * 100)
		metrics.ResponseRate = &rate
	}

	return metrics
}
