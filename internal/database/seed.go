package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/formpulse-tools/insights_backend/internal/models"
)

// demoSurveyTitle marks the seeded survey so clearing can find it again
const demoSurveyTitle = "FormPulse Demo: Employee Engagement Pulse"

// Seeder handles database seeding operations
// #SEED_DATA: Demo engagement survey with scored responses so every
// dashboard view renders locally without the delivery service
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a new database seeder
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed operations
func (s *Seeder) SeedAll(ctx context.Context) error {
	log.Println("Starting database seeding...")

	if err := s.SeedDemoSurvey(ctx); err != nil {
		return fmt.Errorf("failed to seed demo survey: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

// SeedDemoSurvey seeds the demo survey, two scoring configuration versions,
// and four weeks of responses
func (s *Seeder) SeedDemoSurvey(ctx context.Context) error {
	surveys := s.db.Collection(models.Survey{}.CollectionName())

	// Check if the demo survey already exists
	count, err := surveys.CountDocuments(ctx, bson.M{"title": demoSurveyTitle})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Demo survey already exists, skipping seeding")
		return nil
	}

	survey := s.demoSurvey()
	survey.BeforeCreate()
	if _, err := surveys.InsertOne(ctx, survey); err != nil {
		return err
	}

	versions := s.demoVersions(survey.ID)
	versionDocs := make([]interface{}, len(versions))
	for i, v := range versions {
		v.BeforeCreate()
		versionDocs[i] = v
	}
	if _, err := s.db.Collection(models.ScoreConfigVersion{}.CollectionName()).InsertMany(ctx, versionDocs); err != nil {
		return err
	}

	responses := s.demoResponses(survey.ID, versions[0].ID, versions[1].ID)
	responseDocs := make([]interface{}, len(responses))
	for i, r := range responses {
		r.BeforeCreate()
		responseDocs[i] = r
	}
	if _, err := s.db.Collection(models.Response{}.CollectionName()).InsertMany(ctx, responseDocs); err != nil {
		return err
	}

	// Record the seed in the audit trail so demo environments show one
	audit := &models.AuditLog{
		Actor:        "seeder",
		Action:       models.AuditActionCreate,
		ResourceType: models.ResourceTypeSurvey,
		ResourceID:   survey.ID,
		Description:  fmt.Sprintf("Seeded demo survey with %d versions and %d responses", len(versions), len(responses)),
		RequestID:    uuid.NewString(),
	}
	audit.BeforeCreate()
	if _, err := s.db.Collection(models.AuditLog{}.CollectionName()).InsertOne(ctx, audit); err != nil {
		return err
	}

	log.Printf("Seeded demo survey with %d versions and %d responses", len(versions), len(responses))
	return nil
}

// demoSurvey returns the engagement pulse survey with five scoring
// categories and a global range set
func (s *Seeder) demoSurvey() *models.Survey {
	invited := 40

	return &models.Survey{
		ID:          primitive.NewObjectID(),
		Title:       demoSurveyTitle,
		Description: "Quarterly engagement pulse used to exercise the scoring and analytics endpoints locally.",
		Status:      models.SurveyStatusPublished,
		Questions: []models.Question{
			{
				ID:              "q_manager_support",
				Type:            models.QuestionTypeRating,
				Title:           "How satisfied are you with the support you get from your manager?",
				Order:           1,
				Rating:          &models.RatingParams{Scale: 5},
				Scorable:        true,
				ScoringCategory: "management",
			},
			{
				ID:              "q_recommend",
				Type:            models.QuestionTypeNPS,
				Title:           "How likely are you to recommend working here to a friend?",
				Order:           2,
				Scorable:        true,
				ScoringCategory: "loyalty",
				ScoreWeight:     2,
			},
			{
				ID:              "q_growth",
				Type:            models.QuestionTypeLikert,
				Title:           "I have real opportunities to grow in my role.",
				Order:           3,
				Likert:          &models.LikertParams{Points: 5},
				Scorable:        true,
				ScoringCategory: "growth",
				OptionScores: map[string]float64{
					"Strongly Disagree": 1,
					"Disagree":          2,
					"Neutral":           3,
					"Agree":             4,
					"Strongly Agree":    5,
				},
			},
			{
				ID:              "q_balance",
				Type:            models.QuestionTypeOpinionScale,
				Title:           "Rate your current work-life balance.",
				Order:           4,
				Scale:           &models.ScaleParams{Min: 0, Max: 10},
				Scorable:        true,
				ScoringCategory: "wellbeing",
			},
			{
				ID:     "q_work_mode",
				Type:   models.QuestionTypeMultipleChoice,
				Title:  "Where do you mostly work?",
				Order:  5,
				Choice: &models.ChoiceParams{Options: []string{"Office", "Hybrid", "Remote"}},
			},
			{
				ID:              "q_tools",
				Type:            models.QuestionTypeYesNo,
				Title:           "Do you have the tools you need to do your job well?",
				Order:           6,
				Scorable:        true,
				ScoringCategory: "enablement",
				OptionScores:    map[string]float64{"Yes": 1, "No": 0},
			},
			{
				ID:       "q_benefits",
				Type:     models.QuestionTypeCheckbox,
				Title:    "Which benefits matter most to you?",
				Order:    7,
				Checkbox: &models.CheckboxParams{Options: []string{"Health insurance", "Learning budget", "Gym membership", "Transit pass"}, MaxSelections: 2},
			},
			{
				ID:    "q_improve",
				Type:  models.QuestionTypeTextarea,
				Title: "What is one thing we should improve?",
				Order: 8,
			},
		},
		ScoreConfig: models.ScoreConfig{
			Enabled:  true,
			MaxScore: 100,
			Categories: []models.Category{
				{ID: "management", Name: "Management Support", Weight: 1.5},
				{ID: "loyalty", Name: "Loyalty", Weight: 2},
				{ID: "growth", Name: "Growth", Weight: 1},
				{ID: "wellbeing", Name: "Wellbeing", Weight: 1},
				{ID: "enablement", Name: "Enablement", Weight: 0.5},
			},
			Ranges: []models.ScoreRange{
				{ID: "at-risk", Min: 0, Max: 40, Label: "At Risk", Color: "#ef4444", Interpretation: "Engagement needs immediate attention."},
				{ID: "developing", Min: 41, Max: 70, Label: "Developing", Color: "#facc15", Interpretation: "Engagement is forming but uneven."},
				{ID: "thriving", Min: 71, Max: 100, Label: "Thriving", Color: "#22c55e", Interpretation: "Engagement is a strength to maintain."},
			},
		},
		InvitedCount: &invited,
	}
}

// demoVersions returns two scoring configuration versions so version trends
// and before/after comparisons have data
func (s *Seeder) demoVersions(surveyID primitive.ObjectID) []*models.ScoreConfigVersion {
	return []*models.ScoreConfigVersion{
		{ID: primitive.NewObjectID(), SurveyID: surveyID, Version: 1, Label: "Initial configuration"},
		{ID: primitive.NewObjectID(), SurveyID: surveyID, Version: 2, Label: "Recalibrated weights"},
	}
}

// demoResponses returns four weeks of responses. The first two weeks ride on
// version 1, the later two on version 2 with generally better answers, so
// the comparison view shows movement.
func (s *Seeder) demoResponses(surveyID, v1, v2 primitive.ObjectID) []*models.Response {
	base := time.Now().UTC().AddDate(0, 0, -28)

	type sample struct {
		day        int
		durationS  int
		completion float64
		manager    string
		name       string
		version    *primitive.ObjectID
		answers    map[string]models.AnswerValue
	}

	samples := []sample{
		// Week 1-2, version 1
		{1, 320, 100, "mgr-100", "Dana Alvarez", &v1, engagementAnswers("4", "8", "Agree", "6", "Hybrid", "Yes", []string{"Health insurance", "Learning budget"})},
		{1, 410, 100, "mgr-100", "Dana Alvarez", &v1, engagementAnswers("3", "7", "Neutral", "5", "Office", "Yes", []string{"Health insurance"})},
		{2, 270, 100, "mgr-200", "Priya Nair", &v1, engagementAnswers("5", "9", "Agree", "7", "Remote", "Yes", []string{"Learning budget", "Gym membership"})},
		{3, 530, 100, "mgr-200", "Priya Nair", &v1, engagementAnswers("2", "4", "Disagree", "3", "Office", "No", []string{"Transit pass"})},
		{4, 190, 60, "", "", &v1, engagementAnswers("3", "6", "", "5", "Hybrid", "", nil)},
		{6, 350, 100, "mgr-100", "Dana Alvarez", &v1, engagementAnswers("4", "7", "Agree", "6", "Hybrid", "Yes", []string{"Health insurance", "Transit pass"})},
		{8, 300, 100, "mgr-300", "Tomás Rivera", &v1, engagementAnswers("3", "5", "Neutral", "4", "Remote", "No", []string{"Gym membership"})},
		{9, 240, 100, "mgr-300", "Tomás Rivera", &v1, engagementAnswers("2", "3", "Strongly Disagree", "2", "Office", "No", nil)},
		{11, 450, 40, "", "", &v1, engagementAnswers("", "5", "", "", "Hybrid", "", nil)},
		{12, 380, 100, "mgr-200", "Priya Nair", &v1, engagementAnswers("4", "8", "Agree", "8", "Remote", "Yes", []string{"Learning budget"})},

		// Week 3-4, version 2
		{15, 280, 100, "mgr-100", "Dana Alvarez", &v2, engagementAnswers("5", "9", "Strongly Agree", "8", "Hybrid", "Yes", []string{"Health insurance", "Learning budget"})},
		{16, 330, 100, "mgr-100", "Dana Alvarez", &v2, engagementAnswers("4", "8", "Agree", "7", "Remote", "Yes", []string{"Learning budget"})},
		{17, 260, 100, "mgr-200", "Priya Nair", &v2, engagementAnswers("5", "10", "Strongly Agree", "9", "Remote", "Yes", []string{"Learning budget", "Gym membership"})},
		{18, 420, 100, "mgr-200", "Priya Nair", &v2, engagementAnswers("4", "7", "Agree", "6", "Hybrid", "Yes", []string{"Health insurance"})},
		{19, 510, 80, "mgr-300", "Tomás Rivera", &v2, engagementAnswers("3", "6", "Neutral", "5", "Office", "Yes", []string{"Transit pass"})},
		{22, 290, 100, "mgr-300", "Tomás Rivera", &v2, engagementAnswers("4", "6", "Agree", "6", "Hybrid", "Yes", []string{"Gym membership", "Health insurance"})},
		{23, 210, 100, "", "", &v2, engagementAnswers("5", "9", "Strongly Agree", "8", "Remote", "Yes", []string{"Learning budget"})},
		{25, 360, 100, "mgr-100", "Dana Alvarez", &v2, engagementAnswers("4", "8", "Agree", "7", "Hybrid", "Yes", []string{"Health insurance", "Learning budget"})},
		{26, 190, 20, "", "", &v2, engagementAnswers("", "", "", "", "Office", "", nil)},
		{27, 400, 100, "mgr-200", "Priya Nair", &v2, engagementAnswers("5", "9", "Agree", "8", "Remote", "Yes", []string{"Learning budget"})},
	}

	responses := make([]*models.Response, 0, len(samples))
	for _, smp := range samples {
		completed := base.AddDate(0, 0, smp.day).Add(time.Duration(9+smp.day%8) * time.Hour)
		started := completed.Add(-time.Duration(smp.durationS) * time.Second)
		durationMs := int64(smp.durationS) * 1000

		r := &models.Response{
			ID:                   primitive.NewObjectID(),
			SurveyID:             surveyID,
			Answers:              smp.answers,
			CompletionPercentage: smp.completion,
			StartedAt:            &started,
			CompletedAt:          &completed,
			TotalDurationMs:      &durationMs,
			ScoreConfigVersionID: smp.version,
			CreatedAt:            completed,
		}
		if smp.manager != "" {
			r.Metadata = map[string]string{
				models.MetadataKeyManagerID:   smp.manager,
				models.MetadataKeyManagerName: smp.name,
			}
		}
		responses = append(responses, r)
	}
	return responses
}

// engagementAnswers assembles one response's answer map, skipping blanks so
// partially completed responses look like real abandonment
func engagementAnswers(rating, nps, growth, balance, mode, tools string, benefits []string) map[string]models.AnswerValue {
	answers := map[string]models.AnswerValue{}
	if rating != "" {
		answers["q_manager_support"] = models.NewAnswer(rating)
	}
	if nps != "" {
		answers["q_recommend"] = models.NewAnswer(nps)
	}
	if growth != "" {
		answers["q_growth"] = models.NewAnswer(growth)
	}
	if balance != "" {
		answers["q_balance"] = models.NewAnswer(balance)
	}
	if mode != "" {
		answers["q_work_mode"] = models.NewAnswer(mode)
	}
	if tools != "" {
		answers["q_tools"] = models.NewAnswer(tools)
	}
	if len(benefits) > 0 {
		answers["q_benefits"] = models.NewMultiAnswer(benefits)
	}
	return answers
}

// ClearSeededData removes the demo survey and everything hanging off it
func (s *Seeder) ClearSeededData(ctx context.Context) error {
	surveys := s.db.Collection(models.Survey{}.CollectionName())

	var survey models.Survey
	err := surveys.FindOne(ctx, bson.M{"title": demoSurveyTitle}).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		log.Println("No demo survey found, nothing to clear")
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.db.Collection(models.Response{}.CollectionName()).DeleteMany(ctx, bson.M{"survey_id": survey.ID}); err != nil {
		return err
	}
	if _, err := s.db.Collection(models.ScoreConfigVersion{}.CollectionName()).DeleteMany(ctx, bson.M{"survey_id": survey.ID}); err != nil {
		return err
	}
	if _, err := s.db.Collection(models.AuditLog{}.CollectionName()).DeleteMany(ctx, bson.M{"resource_type": models.ResourceTypeSurvey, "resource_id": survey.ID}); err != nil {
		return err
	}
	result, err := surveys.DeleteOne(ctx, bson.M{"_id": survey.ID})
	if err != nil {
		return err
	}

	log.Printf("Removed demo survey and its data (%d survey)", result.DeletedCount)
	return nil
}
