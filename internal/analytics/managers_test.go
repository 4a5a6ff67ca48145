package analytics

import (
	"testing"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

func managedResponse(managerID string, completion float64, answers map[string]string) models.Response {
	r := answered(answers)
	r.CompletionPercentage = completion
	if managerID != "" {
		r.Metadata = map[string]string{
			models.MetadataKeyManagerID:   managerID,
			models.MetadataKeyManagerName: "Manager " + managerID,
		}
	}
	return r
}

func TestComputeManagerRollups(t *testing.T) {
	survey := analyticsSurvey()
	responses := []models.Response{
		managedResponse("mgr-a", 100, map[string]string{"q1": "4", "q2": "9"}),  // 85
		managedResponse("mgr-a", 100, map[string]string{"q1": "5", "q2": "10"}), // 100
		managedResponse("mgr-b", 50, map[string]string{"q1": "1"}),              // 10
		managedResponse("", 100, map[string]string{"q1": "5"}),                  // no manager
	}

	got := ComputeManagerRollups(survey, responses)

	if got.TotalResponses != 4 {
		t.Errorf("TotalResponses = %d, want 4", got.TotalResponses)
	}
	if got.WithManager != 3 {
		t.Errorf("WithManager = %d, want 3", got.WithManager)
	}
	if len(got.Managers) != 2 {
		t.Fatalf("Managers = %d, want 2", len(got.Managers))
	}

	// Larger team first
	a := got.Managers[0]
	if a.ManagerID != "mgr-a" || a.ResponseCount != 2 {
		t.Fatalf("first rollup = %+v, want mgr-a with 2 responses", a)
	}
	if a.ManagerName != "Manager mgr-a" {
		t.Errorf("ManagerName = %v, want Manager mgr-a", a.ManagerName)
	}
	if a.CompletionRate != 100 {
		t.Errorf("mgr-a completion rate = %v, want 100", a.CompletionRate)
	}
	if a.AverageScore == nil || *a.AverageScore != 92.5 {
		t.Errorf("mgr-a average score = %v, want 92.5", a.AverageScore)
	}
	if len(a.Bands) != 5 {
		t.Errorf("mgr-a bands = %d, want full taxonomy", len(a.Bands))
	}

	b := got.Managers[1]
	if b.ManagerID != "mgr-b" || b.ResponseCount != 1 {
		t.Fatalf("second rollup = %+v, want mgr-b with 1 response", b)
	}
	if b.CompletionRate != 0 {
		t.Errorf("mgr-b completion rate = %v, want 0", b.CompletionRate)
	}
	if b.AverageScore == nil || *b.AverageScore != 10 {
		t.Errorf("mgr-b average score = %v, want 10", b.AverageScore)
	}
}

func TestComputeManagerRollupsTieBreak(t *testing.T) {
	survey := analyticsSurvey()
	responses := []models.Response{
		managedResponse("mgr-z", 100, nil),
		managedResponse("mgr-a", 100, nil),
	}

	got := ComputeManagerRollups(survey, responses)

	if len(got.Managers) != 2 {
		t.Fatalf("Managers = %d, want 2", len(got.Managers))
	}
	// Equal team size sorts by manager ID
	if got.Managers[0].ManagerID != "mgr-a" || got.Managers[1].ManagerID != "mgr-z" {
		t.Errorf("order = %v, %v, want mgr-a then mgr-z",
			got.Managers[0].ManagerID, got.Managers[1].ManagerID)
	}
}

func TestComputeManagerRollupsEmpty(t *testing.T) {
	survey := analyticsSurvey()

	got := ComputeManagerRollups(survey, nil)

	if got.WithManager != 0 || len(got.Managers) != 0 {
		t.Errorf("rollups = %+v, want empty", got)
	}
}
