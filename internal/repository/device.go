package repository

import (
	"context"
	"time"
	"authguard/internal/models"

	"github.com/google/uuid"
)

// DeviceRepository defines the interface for device records and the
// append-only device change ledger.
type DeviceRepository interface {
	Repository
	GetActive(ctx context.Context, accountID uuid.UUID) (*models.DeviceRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DeviceRecord, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.DeviceRecord, error)

	// Register inserts a device row. When activate is true the previously
	// active device is deactivated in the same transaction, preserving the
	// one-active-device invariant.
	Register(ctx context.Context, device *models.DeviceRecord, activate bool) error

	// Activate makes the given device the single active one for its account.
	Activate(ctx context.Context, id uuid.UUID) error

	// TouchLastSeen stamps last_seen_at for the device.
	TouchLastSeen(ctx context.Context, id uuid.UUID, seenAt time.Time) error

	CreateChangeEvent(ctx context.Context, event *models.DeviceChangeEvent) error
	GetChangeEvent(ctx context.Context, id uuid.UUID) (*models.DeviceChangeEvent, error)
	ListChangeEvents(ctx context.Context, accountID uuid.UUID) ([]models.DeviceChangeEvent, error)
}
