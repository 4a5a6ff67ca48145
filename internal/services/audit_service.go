// Package services provides business logic implementations.
package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/formpulse-tools/insights_backend/internal/models"
	"github.com/formpulse-tools/insights_backend/internal/repository"
)

// AuditService records mutations performed through this service
// #INTEGRATION_POINT: Response deletion is the only API mutation, the seeder
// also writes create entries
type AuditService interface {
	// Log creates an audit log entry
	Log(ctx context.Context, entry AuditEntry) error

	// LogAsync logs asynchronously (non-blocking)
	LogAsync(entry AuditEntry)

	// ListByResource lists audit logs for a resource
	ListByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error)
}

// AuditEntry represents an audit log entry to be created
type AuditEntry struct {
	Actor        string
	Action       models.AuditAction
	ResourceType string
	ResourceID   primitive.ObjectID
	Description  string
	IPAddress    string
	RequestID    string
}

// auditService implements AuditService
type auditService struct {
	auditRepo repository.AuditRepository
	logChan   chan AuditEntry
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	svc := &auditService{
		auditRepo: auditRepo,
		logChan:   make(chan AuditEntry, 1000), // Buffer for async logging
	}

	// Start async worker
	go svc.asyncWorker()

	return svc
}

// asyncWorker processes audit entries asynchronously
func (s *auditService) asyncWorker() {
	for entry := range s.logChan {
		ctx := context.Background()
		if err := s.Log(ctx, entry); err != nil {
			log.Printf("Failed to log audit entry: %v", err)
		}
	}
}

// Log creates an audit log entry
func (s *auditService) Log(ctx context.Context, entry AuditEntry) error {
	auditLog := &models.AuditLog{
		Actor:        entry.Actor,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Description:  entry.Description,
		IPAddress:    entry.IPAddress,
		RequestID:    entry.RequestID,
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// LogAsync logs asynchronously (non-blocking)
func (s *auditService) LogAsync(entry AuditEntry) {
	select {
	case s.logChan <- entry:
		// Successfully queued
	default:
		// Channel full, log synchronously as fallback
		log.Printf("Audit log channel full, logging synchronously")
		ctx := context.Background()
		if err := s.Log(ctx, entry); err != nil {
			log.Printf("Failed to log audit entry: %v", err)
		}
	}
}

// ListByResource lists audit logs for a resource
func (s *auditService) ListByResource(ctx context.Context, resourceType string, resourceID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.AuditLog], error) {
	return s.auditRepo.ListByResource(ctx, resourceType, resourceID, opts)
}

// Ensure auditService implements AuditService
var _ AuditService = (*auditService)(nil)
