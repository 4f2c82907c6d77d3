// Package device enforces the device identity change-lock policy for
// paying accounts. Free-tier accounts bypass the policy entirely.
package device

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
	"authguard/internal/config"
	"authguard/internal/models"
	"authguard/internal/notification"
	"authguard/internal/repository"
	"authguard/internal/subscription"

	"github.com/google/uuid"
)

var (
	// ErrLockedPendingReview indicates the account exceeded the device
	// change threshold and needs an admin action to clear.
	ErrLockedPendingReview = errors.New("device changes locked pending review")
	// ErrNotPendingReview indicates an admin review was requested for an
	// event that never locked the account.
	ErrNotPendingReview = errors.New("change event is not pending review")
)

// Status is the policy outcome for a presented fingerprint.
type Status string

const (
	StatusAllowed Status = "allowed"
	StatusWarned  Status = "warned"
	StatusLocked  Status = "locked-pending-review"
)

// Result carries the policy decision and the affected records.
type Result struct {
	Status           Status
	ChangesRemaining int
	Device           *models.DeviceRecord
	Event            *models.DeviceChangeEvent
}

// Service applies the change-lock policy. The lifetime change counter is
// monotonic per account: it counts the initial registration and every
// change after it, and it is never reset, not even by an admin unlock.
type Service struct {
	config   *config.Config
	accounts repository.AccountRepository
	devices  repository.DeviceRepository
	subs     subscription.Service
	notifier notification.Sender
}

// NewService creates a new device policy service
func NewService(cfg *config.Config, accounts repository.AccountRepository, devices repository.DeviceRepository, subs subscription.Service, notifier notification.Sender) *Service {
	return &Service{
		config:   cfg,
		accounts: accounts,
		devices:  devices,
		subs:     subs,
		notifier: notifier,
	}
}

// FingerprintHash derives the stored device identity from a presented
// fingerprint.
func FingerprintHash(fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}

// ValidateOrRegister gates access for the presented fingerprint.
//
// Same fingerprint as the active device: allowed, no ledger entry. A
// different fingerprint is a device change: the counter is bumped
// atomically in the store, the value decides the outcome (warn at the
// configured threshold, hard lock at or beyond the lock threshold), and a
// ledger event is appended. Free-tier accounts are always allowed.
func (s *Service) ValidateOrRegister(ctx context.Context, accountID uuid.UUID, fingerprint string) (*Result, error) {
	paid, err := s.subs.IsPaidTier(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !paid {
		return &Result{Status: StatusAllowed}, nil
	}

	hash := FingerprintHash(fingerprint)
	now := time.Now()

	active, err := s.devices.GetActive(ctx, accountID)
	if err != nil && !errors.Is(err, repository.ErrDeviceNotFound) {
		return nil, err
	}

	if active != nil && active.FingerprintHash == hash {
		// Same device, not a change.
		if err := s.devices.TouchLastSeen(ctx, active.ID, now); err != nil {
			return nil, err
		}
		active.LastSeenAt = now
		return &Result{Status: StatusAllowed, Device: active}, nil
	}

	changeNumber, err := s.accounts.IncrementDeviceChange(ctx, accountID)
	if err != nil {
		return nil, err
	}

	event := &models.DeviceChangeEvent{
		AccountID:    accountID,
		ChangeNumber: changeNumber,
		CreatedAt:    now,
	}
	if active != nil {
		oldID := active.ID
		event.OldDeviceID = &oldID
	}

	newDevice := &models.DeviceRecord{
		AccountID:       accountID,
		FingerprintHash: hash,
		FirstSeenAt:     now,
		LastSeenAt:      now,
	}

	switch {
	case changeNumber >= s.config.Device.LockAtChange:
		// The new device is recorded but never activated; the account is
		// hard-blocked until an admin approves.
		if err := s.devices.Register(ctx, newDevice, false); err != nil {
			return nil, err
		}
		event.NewDeviceID = newDevice.ID
		event.Status = models.DeviceChangeLocked
		if err := s.devices.CreateChangeEvent(ctx, event); err != nil {
			return nil, err
		}
		if err := s.accounts.SetDeviceLock(ctx, accountID, true); err != nil {
			return nil, err
		}
		notification.LogOnFailure(s.notifier, ctx, accountID, notification.EventDeviceLocked)
		return &Result{Status: StatusLocked, Device: newDevice, Event: event}, nil

	case changeNumber == s.config.Device.WarnAtChange:
		if err := s.devices.Register(ctx, newDevice, true); err != nil {
			return nil, err
		}
		event.NewDeviceID = newDevice.ID
		event.Status = models.DeviceChangeWarned
		if err := s.devices.CreateChangeEvent(ctx, event); err != nil {
			return nil, err
		}
		notification.LogOnFailure(s.notifier, ctx, accountID, notification.EventDeviceChangeWarning)
		return &Result{
			Status:           StatusWarned,
			ChangesRemaining: s.config.Device.LockAtChange - 1 - changeNumber,
			Device:           newDevice,
			Event:            event,
		}, nil

	default:
		if err := s.devices.Register(ctx, newDevice, true); err != nil {
			return nil, err
		}
		event.NewDeviceID = newDevice.ID
		event.Status = models.DeviceChangeAllowed
		if err := s.devices.CreateChangeEvent(ctx, event); err != nil {
			return nil, err
		}
		return &Result{
			Status:           StatusAllowed,
			ChangesRemaining: s.config.Device.LockAtChange - 1 - changeNumber,
			Device:           newDevice,
			Event:            event,
		}, nil
	}
}

// AdminReview resolves a locked-pending-review change event. Approve makes
// the requested device active and lifts the block; the change counter
// keeps its value so lifetime churn stays auditable. Reject leaves the
// account locked.
func (s *Service) AdminReview(ctx context.Context, eventID uuid.UUID, approve bool) error {
	event, err := s.devices.GetChangeEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != models.DeviceChangeLocked {
		return ErrNotPendingReview
	}

	if !approve {
		return nil
	}

	if err := s.devices.Activate(ctx, event.NewDeviceID); err != nil {
		return err
	}
	return s.accounts.SetDeviceLock(ctx, event.AccountID, false)
}

// ChangeEvent returns a single change event from the ledger.
func (s *Service) ChangeEvent(ctx context.Context, eventID uuid.UUID) (*models.DeviceChangeEvent, error) {
	return s.devices.GetChangeEvent(ctx, eventID)
}

// History returns the account's device records, newest first.
func (s *Service) History(ctx context.Context, accountID uuid.UUID) ([]models.DeviceRecord, error) {
	return s.devices.ListByAccount(ctx, accountID)
}
