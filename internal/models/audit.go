package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction represents the type of action in an audit log
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionDelete AuditAction = "DELETE"
)

// MarshalJSON converts AuditAction to lowercase for JSON serialization
func (a AuditAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(a)))
}

// UnmarshalJSON converts lowercase JSON to AuditAction
func (a *AuditAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = AuditAction(strings.ToUpper(s))
	return nil
}

// IsValid checks if the AuditAction is a valid value
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionDelete:
		return true
	}
	return false
}

// ResourceType constants for audit logging
const (
	ResourceTypeSurvey   = "survey"
	ResourceTypeResponse = "response"
	ResourceTypeVersion  = "score_config_version"
)

// AuditLog records a mutation performed through this service. Response
// deletion is the only mutation the API exposes, but the seeder also writes
// create entries so demo environments show a coherent trail.
// #DATA_ASSUMPTION: Audit logs are append-only, never modified or deleted
type AuditLog struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Actor is the token subject that performed the action
	Actor string `bson:"actor" json:"actor"`

	Action       AuditAction        `bson:"action" json:"action"`
	ResourceType string             `bson:"resource_type" json:"resource_type"`
	ResourceID   primitive.ObjectID `bson:"resource_id" json:"resource_id"`
	Description  string             `bson:"description" json:"description"`

	// Request metadata
	IPAddress string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	RequestID string `bson:"request_id,omitempty" json:"request_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for audit logs
func (AuditLog) CollectionName() string {
	return "audit_logs"
}

// BeforeCreate sets default values before inserting a new audit log
func (a *AuditLog) BeforeCreate() {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = time.Now().UTC()
}

// NewAuditLog creates a new audit log entry
func NewAuditLog(action AuditAction, resourceType string, resourceID primitive.ObjectID, description string) *AuditLog {
	log := &AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
	}
	log.BeforeCreate()
	return log
}

// SetActor sets the acting token subject
func (a *AuditLog) SetActor(actor string) *AuditLog {
	a.Actor = actor
	return a
}

// SetRequestInfo sets the request metadata
func (a *AuditLog) SetRequestInfo(ipAddress, requestID string) *AuditLog {
	a.IPAddress = ipAddress
	a.RequestID = requestID
	return a
}
