package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceRecord represents a device that has been registered for an account.
// At most one record per account is active at any time; older devices remain
// as historical rows.
type DeviceRecord struct {
	ID              uuid.UUID `json:"id"`
	AccountID       uuid.UUID `json:"account_id"`
	FingerprintHash string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	FirstSeenAt     time.Time `json:"first_seen_at"`
	LastSeenAt      time.Time `json:"last_seen_at"`
}

// DeviceChangeStatus classifies the outcome recorded for a device change
type DeviceChangeStatus string

const (
	DeviceChangeAllowed DeviceChangeStatus = "allowed"
	DeviceChangeWarned  DeviceChangeStatus = "warned"
	DeviceChangeLocked  DeviceChangeStatus = "locked-pending-review"
)

// DeviceChangeEvent is one entry in the append-only device change ledger.
// ChangeNumber is monotonic per account and never resets, even across admin
// unlocks, so the running total reflects lifetime device churn.
type DeviceChangeEvent struct {
	ID           uuid.UUID          `json:"id"`
	AccountID    uuid.UUID          `json:"account_id"`
	OldDeviceID  *uuid.UUID         `json:"old_device_id,omitempty"`
	NewDeviceID  uuid.UUID          `json:"new_device_id"`
	ChangeNumber int                `json:"change_number"`
	Status       DeviceChangeStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
}
