package analytics

import (
	"math"
	"testing"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

func TestComputeIndexDistribution(t *testing.T) {
	survey := analyticsSurvey()
	responses := []models.Response{
		answered(map[string]string{"q1": "4", "q2": "9"}),  // 85
		answered(map[string]string{"q1": "5", "q2": "10"}), // 100
		answered(map[string]string{"q1": "1"}),             // quality 20, loyalty 0 -> 10
		answered(map[string]string{"q3": "Red"}),           // unscored
	}

	got := ComputeIndexDistribution(survey, responses)

	if got.TotalResponses != 4 {
		t.Errorf("TotalResponses = %d, want 4", got.TotalResponses)
	}
	if got.ScoredResponses != 3 {
		t.Errorf("ScoredResponses = %d, want 3", got.ScoredResponses)
	}
	if len(got.Buckets) != 5 {
		t.Fatalf("Buckets = %d, want 5", len(got.Buckets))
	}

	counts := map[string]int{}
	total := 0
	for _, b := range got.Buckets {
		counts[b.Range] = b.Count
		total += b.Count
	}
	if counts["0-20"] != 1 || counts["81-100"] != 2 {
		t.Errorf("bucket counts = %v, want 1 in 0-20 and 2 in 81-100", counts)
	}
	// Every scored response lands in exactly one bucket
	if total != got.ScoredResponses {
		t.Errorf("bucket counts sum to %d, want %d", total, got.ScoredResponses)
	}

	if got.Statistics == nil {
		t.Fatal("Statistics = nil, want values")
	}
	if got.Statistics.Min != 10 || got.Statistics.Max != 100 {
		t.Errorf("Min/Max = %v/%v, want 10/100", got.Statistics.Min, got.Statistics.Max)
	}
	if got.Statistics.Mean != 65 {
		t.Errorf("Mean = %v, want 65", got.Statistics.Mean)
	}
	if got.Statistics.Median != 85 {
		t.Errorf("Median = %v, want 85", got.Statistics.Median)
	}
	wantStdDev := math.Round(math.Sqrt(1550)*100) / 100
	if got.Statistics.StdDev != wantStdDev {
		t.Errorf("StdDev = %v, want %v", got.Statistics.StdDev, wantStdDev)
	}
}

func TestComputeIndexDistributionEmpty(t *testing.T) {
	survey := analyticsSurvey()

	got := ComputeIndexDistribution(survey, nil)

	if got.ScoredResponses != 0 {
		t.Errorf("ScoredResponses = %d, want 0", got.ScoredResponses)
	}
	if len(got.Buckets) != 5 {
		t.Fatalf("Buckets = %d, want the full taxonomy even when empty", len(got.Buckets))
	}
	for _, b := range got.Buckets {
		if b.Count != 0 || b.Percentage != 0 {
			t.Errorf("bucket %s = %d (%v%%), want zeroes", b.Range, b.Count, b.Percentage)
		}
	}
	if got.Statistics != nil {
		t.Errorf("Statistics = %+v, want nil with no scores", got.Statistics)
	}
}

func TestComputeBandDistribution(t *testing.T) {
	survey := analyticsSurvey()
	responses := []models.Response{
		answered(map[string]string{"q1": "4", "q2": "9"}),  // 85
		answered(map[string]string{"q1": "5", "q2": "10"}), // 100
		answered(map[string]string{"q1": "1"}),             // 10
		answered(map[string]string{"q3": "Red"}),           // unscored
	}

	got := ComputeBandDistribution(survey, responses)

	if got.ScoredResponses != 3 {
		t.Errorf("ScoredResponses = %d, want 3", got.ScoredResponses)
	}
	if len(got.Bands) != 5 {
		t.Fatalf("Bands = %d, want 5", len(got.Bands))
	}

	byID := map[string]BandSlice{}
	sum := 0.0
	for _, b := range got.Bands {
		byID[b.Band.ID] = b
		sum += b.Percentage
	}
	if byID["81-100"].Count != 2 || byID["81-100"].Band.Label != "Excellent" {
		t.Errorf("top band = %+v, want 2 Excellent", byID["81-100"])
	}
	// Percentages are over the scored count
	if byID["0-20"].Percentage != 33.3 || byID["81-100"].Percentage != 66.7 {
		t.Errorf("percentages = %v/%v, want 33.3/66.7", byID["0-20"].Percentage, byID["81-100"].Percentage)
	}
	if math.Abs(sum-100) > 0.2 {
		t.Errorf("band percentages sum to %v, want ~100", sum)
	}
}
