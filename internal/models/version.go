package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoreConfigVersion marks a point in time at which a survey's scoring
// configuration changed. Responses carry the version active when they were
// submitted, which keeps historical comparisons meaningful as scoring rules
// evolve.
// #DATA_ASSUMPTION: Version records are immutable once written
// #BUSINESS_RULE: A survey with no version records is valid - all of its
// responses belong to one implicit version
type ScoreConfigVersion struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	Version  int                `bson:"version" json:"version"`
	Label    string             `bson:"label,omitempty" json:"label,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for score config versions
func (ScoreConfigVersion) CollectionName() string {
	return "score_config_versions"
}

// BeforeCreate sets default values before inserting a new version record
func (v *ScoreConfigVersion) BeforeCreate() {
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
}

// DisplayLabel returns the label, falling back to "v<version>"
func (v *ScoreConfigVersion) DisplayLabel() string {
	if v.Label != "" {
		return v.Label
	}
	return "v" + strconv.Itoa(v.Version)
}
