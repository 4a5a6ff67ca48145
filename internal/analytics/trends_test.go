package analytics

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

func timedResponse(ts *time.Time, answers map[string]string) models.Response {
	r := answered(answers)
	r.CompletedAt = ts
	return r
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected TrendGranularity
		wantErr  bool
	}{
		{"Daily", "daily", GranularityDaily, false},
		{"Weekly", "weekly", GranularityWeekly, false},
		{"Monthly", "monthly", GranularityMonthly, false},
		{"Empty defaults to weekly", "", GranularityWeekly, false},
		{"Unknown rejected", "hourly", "", true},
		{"Case sensitive", "Daily", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGranularity(tt.input)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidGranularity) {
					t.Fatalf("ParseGranularity(%q) error = %v, want ErrInvalidGranularity", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGranularity(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseGranularity(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBucketStart(t *testing.T) {
	// 2026-03-04 is a Wednesday, 2026-03-01 a Sunday
	tests := []struct {
		name        string
		t           time.Time
		granularity TrendGranularity
		expected    time.Time
	}{
		{
			"Daily truncates to midnight",
			time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC),
			GranularityDaily,
			time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			"Wednesday maps to its Monday",
			time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC),
			GranularityWeekly,
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"Monday maps to itself",
			time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			GranularityWeekly,
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"Sunday belongs to the preceding Monday",
			time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC),
			GranularityWeekly,
			time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			"Monthly truncates to the first",
			time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC),
			GranularityMonthly,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bucketStart(tt.t, tt.granularity); !got.Equal(tt.expected) {
				t.Errorf("bucketStart() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestComputeIndexTrendDaily(t *testing.T) {
	survey := analyticsSurvey()
	responses := []models.Response{
		timedResponse(at(4, 9), map[string]string{"q1": "5", "q2": "10"}),  // 100
		timedResponse(at(4, 17), map[string]string{"q1": "4", "q2": "9"}), // 85
		timedResponse(at(5, 10), map[string]string{"q1": "1"}),            // 10
		timedResponse(at(5, 11), nil),                                     // unscored
		answered(map[string]string{"q1": "5"}),                            // no timestamp
	}

	got := ComputeIndexTrend(survey, responses, GranularityDaily)

	if got.Granularity != GranularityDaily {
		t.Errorf("Granularity = %v, want daily", got.Granularity)
	}
	if len(got.Points) != 2 {
		t.Fatalf("Points = %d, want 2", len(got.Points))
	}

	first := got.Points[0]
	if first.Period != "2026-03-04" {
		t.Errorf("first period = %v, want 2026-03-04", first.Period)
	}
	if first.ResponseCount != 2 || first.ScoredCount != 2 {
		t.Errorf("first point counts = %d/%d, want 2/2", first.ResponseCount, first.ScoredCount)
	}
	if first.AverageScore == nil || *first.AverageScore != 92.5 {
		t.Errorf("first point average = %v, want 92.5", first.AverageScore)
	}

	second := got.Points[1]
	if second.Period != "2026-03-05" {
		t.Errorf("second period = %v, want 2026-03-05", second.Period)
	}
	if second.ResponseCount != 2 || second.ScoredCount != 1 {
		t.Errorf("second point counts = %d/%d, want 2/1", second.ResponseCount, second.ScoredCount)
	}
	if second.AverageScore == nil || *second.AverageScore != 10 {
		t.Errorf("second point average = %v, want 10", second.AverageScore)
	}
}

func TestComputeIndexTrendWeekly(t *testing.T) {
	survey := analyticsSurvey()
	responses := []models.Response{
		timedResponse(at(4, 9), map[string]string{"q1": "5", "q2": "10"}), // Wed -> week of Mar 2
		timedResponse(at(8, 9), map[string]string{"q1": "5", "q2": "10"}), // Sun -> same week
		timedResponse(at(9, 9), map[string]string{"q1": "5", "q2": "10"}), // Mon -> week of Mar 9
	}

	got := ComputeIndexTrend(survey, responses, GranularityWeekly)

	if len(got.Points) != 2 {
		t.Fatalf("Points = %d, want 2", len(got.Points))
	}
	if got.Points[0].Period != "2026-03-02" || got.Points[0].ResponseCount != 2 {
		t.Errorf("first week = %v with %d responses, want 2026-03-02 with 2",
			got.Points[0].Period, got.Points[0].ResponseCount)
	}
	if got.Points[1].Period != "2026-03-09" || got.Points[1].ResponseCount != 1 {
		t.Errorf("second week = %v with %d responses, want 2026-03-09 with 1",
			got.Points[1].Period, got.Points[1].ResponseCount)
	}
}

func TestComputeIndexTrendMonthly(t *testing.T) {
	survey := analyticsSurvey()
	april := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	responses := []models.Response{
		timedResponse(at(4, 9), map[string]string{"q1": "5", "q2": "10"}),
		timedResponse(&april, map[string]string{"q1": "4", "q2": "9"}),
	}

	got := ComputeIndexTrend(survey, responses, GranularityMonthly)

	if len(got.Points) != 2 {
		t.Fatalf("Points = %d, want 2", len(got.Points))
	}
	if got.Points[0].Period != "2026-03" || got.Points[1].Period != "2026-04" {
		t.Errorf("periods = %v, %v, want 2026-03, 2026-04", got.Points[0].Period, got.Points[1].Period)
	}
}

func TestComputeVersionTrends(t *testing.T) {
	survey := analyticsSurvey()
	v1 := models.ScoreConfigVersion{ID: primitive.NewObjectID(), Version: 1}
	v2 := models.ScoreConfigVersion{ID: primitive.NewObjectID(), Version: 2, Label: "After reorg"}

	r1 := answered(map[string]string{"q1": "1"}) // 10
	r1.ScoreConfigVersionID = &v1.ID
	r2 := answered(map[string]string{"q1": "5", "q2": "10"}) // 100
	r2.ScoreConfigVersionID = &v2.ID
	r3 := answered(map[string]string{"q1": "4", "q2": "9"}) // 85
	r3.ScoreConfigVersionID = &v2.ID
	untagged := answered(map[string]string{"q1": "5"})

	// Versions arrive newest first; points must still come back in version order
	got := ComputeVersionTrends(survey, []models.Response{r1, r2, r3, untagged},
		[]models.ScoreConfigVersion{v2, v1})

	if len(got.Points) != 2 {
		t.Fatalf("Points = %d, want 2", len(got.Points))
	}
	if got.Points[0].Version != 1 || got.Points[1].Version != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", got.Points[0].Version, got.Points[1].Version)
	}
	if got.Points[0].Label != "v1" {
		t.Errorf("first label = %v, want v1 fallback", got.Points[0].Label)
	}
	if got.Points[1].Label != "After reorg" {
		t.Errorf("second label = %v, want After reorg", got.Points[1].Label)
	}
	if got.Points[0].ResponseCount != 1 || got.Points[1].ResponseCount != 2 {
		t.Errorf("counts = %d, %d, want 1, 2", got.Points[0].ResponseCount, got.Points[1].ResponseCount)
	}
	if got.Points[1].AverageScore == nil || *got.Points[1].AverageScore != 92.5 {
		t.Errorf("v2 average = %v, want 92.5", got.Points[1].AverageScore)
	}
}

func TestComputeVersionTrendsNoVersions(t *testing.T) {
	survey := analyticsSurvey()
	responses := []models.Response{
		answered(map[string]string{"q1": "5", "q2": "10"}),
		answered(map[string]string{"q3": "Red"}),
	}

	got := ComputeVersionTrends(survey, responses, nil)

	if len(got.Points) != 1 {
		t.Fatalf("Points = %d, want single synthetic point", len(got.Points))
	}
	point := got.Points[0]
	if point.Label != "all responses" || point.VersionID != "" {
		t.Errorf("synthetic point = %+v, want all responses label", point)
	}
	if point.ResponseCount != 2 || point.ScoredCount != 1 {
		t.Errorf("synthetic counts = %d/%d, want 2/1", point.ResponseCount, point.ScoredCount)
	}
}
