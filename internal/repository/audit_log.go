package repository

import (
	"context"
	"time"
	"authguard/internal/models"

	"github.com/google/uuid"
)

// AuditLogRepository defines the interface for the security audit trail
type AuditLogRepository interface {
	Repository
	Create(ctx context.Context, log *models.CreateAuditLogRequest) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID, filter AuditLogFilter) ([]models.AuditLog, error)
	CleanupOld(ctx context.Context, olderThan time.Duration) error
}

// AuditLogFilter defines the filter options for listing audit logs
type AuditLogFilter struct {
	Actions       []models.AuditAction // Filter by actions
	CreatedBefore *time.Time           // Filter by creation time
	CreatedAfter  *time.Time           // Filter by creation time
	Limit         *int                 // Limit results
	Offset        *int                 // Offset results
}
