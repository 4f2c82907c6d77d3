// Package testutil provides utilities for testing: a test configuration
// and in-memory repository implementations with the same atomicity
// semantics as the postgres ones.
package testutil

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"
	"authguard/internal/config"
	"authguard/internal/models"
	"authguard/internal/notification"
	"authguard/internal/repository"

	"github.com/google/uuid"
)

// TestConfig returns a configuration suitable for unit tests.
func TestConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{Port: "8080"},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-key-for-tests-only",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			MaxLoginAttempts:     5,
			LockoutDuration:      30 * time.Minute,
		},
		Device: config.DeviceConfig{
			WarnAtChange: 3,
			LockAtChange: 6,
		},
	}
}

// fakeBase satisfies the Repository embed for in-memory fakes. The
// callback runs outside any real transaction.
type fakeBase struct{}

func (fakeBase) Transaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}

func (fakeBase) DB() *sql.DB { return nil }

// FakeAccountRepository is an in-memory AccountRepository.
type FakeAccountRepository struct {
	fakeBase
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
}

// NewFakeAccountRepository creates an empty in-memory account store
func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{accounts: make(map[uuid.UUID]*models.Account)}
}

func (r *FakeAccountRepository) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return repository.ErrEmailExists
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *FakeAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *FakeAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (r *FakeAccountRepository) RegisterFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) (*repository.LoginFailure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	a.FailedLoginAttempts++
	if a.FailedLoginAttempts >= maxAttempts {
		until := time.Now().Add(lockFor)
		a.LockedUntil = &until
	}
	failure := &repository.LoginFailure{Attempts: a.FailedLoginAttempts}
	if a.LockedUntil != nil {
		until := *a.LockedUntil
		failure.LockedUntil = &until
	}
	return failure, nil
}

func (r *FakeAccountRepository) ResetLoginState(ctx context.Context, id uuid.UUID, loginAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.FailedLoginAttempts = 0
	a.LockedUntil = nil
	a.LastLoginAt = &loginAt
	return nil
}

func (r *FakeAccountRepository) IncrementDeviceChange(ctx context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return 0, repository.ErrAccountNotFound
	}
	a.DeviceChangeCount++
	return a.DeviceChangeCount, nil
}

func (r *FakeAccountRepository) SetDeviceLock(ctx context.Context, id uuid.UUID, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.DeviceLocked = locked
	return nil
}

// OverrideLockedUntil sets the lock expiry directly, for tests that need a
// lock in the past or future without replaying failed attempts.
func (r *FakeAccountRepository) OverrideLockedUntil(id uuid.UUID, until *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.LockedUntil = until
	return nil
}

// OverrideActive flips the is_active flag directly.
func (r *FakeAccountRepository) OverrideActive(id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.IsActive = active
	return nil
}

// OverrideRole sets the account role directly.
func (r *FakeAccountRepository) OverrideRole(id uuid.UUID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.Role = role
	return nil
}

// FakeRefreshTokenRepository is an in-memory RefreshTokenRepository with
// the same single-use rotation semantics as the postgres implementation.
type FakeRefreshTokenRepository struct {
	fakeBase
	mu   sync.Mutex
	rows map[string]*models.RefreshToken
}

// NewFakeRefreshTokenRepository creates an empty in-memory token store
func NewFakeRefreshTokenRepository() *FakeRefreshTokenRepository {
	return &FakeRefreshTokenRepository{rows: make(map[string]*models.RefreshToken)}
}

func (r *FakeRefreshTokenRepository) Create(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[token] = &models.RefreshToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *FakeRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *FakeRefreshTokenRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RefreshToken
	for _, row := range r.rows {
		if row.AccountID == accountID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *FakeRefreshTokenRepository) Rotate(ctx context.Context, token string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[token]
	if !ok {
		return uuid.Nil, repository.ErrTokenNotFound
	}
	if row.IsRevoked {
		return uuid.Nil, repository.ErrTokenRevoked
	}
	r.revokeLocked(row, models.RevokedReasonRotated)
	return row.AccountID, nil
}

func (r *FakeRefreshTokenRepository) Revoke(ctx context.Context, token string, reason models.RevokedReason) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[token]
	if !ok {
		return repository.ErrTokenNotFound
	}
	if row.IsRevoked {
		return repository.ErrTokenRevoked
	}
	r.revokeLocked(row, reason)
	return nil
}

func (r *FakeRefreshTokenRepository) RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, reason models.RevokedReason) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows {
		if row.AccountID == accountID && !row.IsRevoked {
			r.revokeLocked(row, reason)
			n++
		}
	}
	return n, nil
}

func (r *FakeRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, row := range r.rows {
		if row.ExpiresAt.Before(before) {
			delete(r.rows, token)
		}
	}
	return nil
}

func (r *FakeRefreshTokenRepository) revokeLocked(row *models.RefreshToken, reason models.RevokedReason) {
	now := time.Now()
	row.IsRevoked = true
	row.RevokedReason = &reason
	row.RevokedAt = &now
}

// FakeDeviceRepository is an in-memory DeviceRepository.
type FakeDeviceRepository struct {
	fakeBase
	mu      sync.Mutex
	devices map[uuid.UUID]*models.DeviceRecord
	events  map[uuid.UUID]*models.DeviceChangeEvent
}

// NewFakeDeviceRepository creates an empty in-memory device store
func NewFakeDeviceRepository() *FakeDeviceRepository {
	return &FakeDeviceRepository{
		devices: make(map[uuid.UUID]*models.DeviceRecord),
		events:  make(map[uuid.UUID]*models.DeviceChangeEvent),
	}
}

func (r *FakeDeviceRepository) GetActive(ctx context.Context, accountID uuid.UUID) (*models.DeviceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.devices {
		if d.AccountID == accountID && d.IsActive {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrDeviceNotFound
}

func (r *FakeDeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DeviceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return nil, repository.ErrDeviceNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *FakeDeviceRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.DeviceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DeviceRecord
	for _, d := range r.devices {
		if d.AccountID == accountID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstSeenAt.After(out[j].FirstSeenAt) })
	return out, nil
}

func (r *FakeDeviceRepository) Register(ctx context.Context, device *models.DeviceRecord, activate bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	if activate {
		r.deactivateLocked(device.AccountID)
	}
	cp := *device
	cp.IsActive = activate
	r.devices[device.ID] = &cp
	device.IsActive = activate
	return nil
}

func (r *FakeDeviceRepository) Activate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	r.deactivateLocked(d.AccountID)
	d.IsActive = true
	return nil
}

func (r *FakeDeviceRepository) TouchLastSeen(ctx context.Context, id uuid.UUID, seenAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	d.LastSeenAt = seenAt
	return nil
}

func (r *FakeDeviceRepository) CreateChangeEvent(ctx context.Context, event *models.DeviceChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *FakeDeviceRepository) GetChangeEvent(ctx context.Context, id uuid.UUID) (*models.DeviceChangeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, repository.ErrChangeEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *FakeDeviceRepository) ListChangeEvents(ctx context.Context, accountID uuid.UUID) ([]models.DeviceChangeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DeviceChangeEvent
	for _, e := range r.events {
		if e.AccountID == accountID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChangeNumber > out[j].ChangeNumber })
	return out, nil
}

func (r *FakeDeviceRepository) deactivateLocked(accountID uuid.UUID) {
	for _, d := range r.devices {
		if d.AccountID == accountID {
			d.IsActive = false
		}
	}
}

// FakeAuditLogRepository is an in-memory AuditLogRepository.
type FakeAuditLogRepository struct {
	fakeBase
	mu      sync.Mutex
	Entries []models.AuditLog
}

// NewFakeAuditLogRepository creates an empty in-memory audit store
func NewFakeAuditLogRepository() *FakeAuditLogRepository {
	return &FakeAuditLogRepository{}
}

func (r *FakeAuditLogRepository) Create(ctx context.Context, req *models.CreateAuditLogRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, models.AuditLog{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Action:      req.Action,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		Description: req.Description,
		Metadata:    req.Metadata,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (r *FakeAuditLogRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AuditLog
	for _, e := range r.Entries {
		if e.AccountID == nil || *e.AccountID != accountID {
			continue
		}
		if len(filter.Actions) > 0 && !containsAction(filter.Actions, e.Action) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *FakeAuditLogRepository) CleanupOld(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	kept := r.Entries[:0]
	for _, e := range r.Entries {
		if e.CreatedAt.After(cutoff) {
			kept = append(kept, e)
		}
	}
	r.Entries = kept
	return nil
}

// Actions returns the recorded actions in insertion order.
func (r *FakeAuditLogRepository) Actions() []models.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuditAction, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Action)
	}
	return out
}

func containsAction(actions []models.AuditAction, action models.AuditAction) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// FakeSubscriptionService answers tier lookups from a fixed set.
type FakeSubscriptionService struct {
	mu   sync.Mutex
	paid map[uuid.UUID]bool
	Err  error
}

// NewFakeSubscriptionService creates a lookup where every account is free
// tier until marked paid.
func NewFakeSubscriptionService() *FakeSubscriptionService {
	return &FakeSubscriptionService{paid: make(map[uuid.UUID]bool)}
}

// SetPaid marks an account as paying.
func (s *FakeSubscriptionService) SetPaid(accountID uuid.UUID, paid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paid[accountID] = paid
}

func (s *FakeSubscriptionService) IsPaidTier(ctx context.Context, accountID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.paid[accountID], nil
}

// FakeNotifier records notifications instead of delivering them.
type FakeNotifier struct {
	mu   sync.Mutex
	Sent []notification.EventKind
	Err  error
}

// NewFakeNotifier creates a recording notifier
func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) Notify(ctx context.Context, accountID uuid.UUID, kind notification.EventKind) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, kind)
	return nil
}
