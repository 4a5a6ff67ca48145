// Package repository provides data access layer factories
// #IMPLEMENTATION_DECISION: Factory functions wrap raw MongoDB constructors for our database.Client
package repository

import (
	"github.com/formpulse-tools/insights_backend/internal/database"
)

// NewSurveyRepository creates a new survey repository using our database client
func NewSurveyRepository(client *database.Client) SurveyRepository {
	return NewMongoSurveyRepository(client.Database())
}

// NewResponseRepository creates a new response repository using our database client
func NewResponseRepository(client *database.Client) ResponseRepository {
	return NewMongoResponseRepository(client.Database())
}

// NewVersionRepository creates a new version repository using our database client
func NewVersionRepository(client *database.Client) VersionRepository {
	return NewMongoVersionRepository(client.Database())
}

// NewAuditRepository creates a new audit repository using our database client
func NewAuditRepository(client *database.Client) AuditRepository {
	return NewMongoAuditRepository(client.Database())
}
