package device_test

import (
	"context"
	"errors"
	"testing"
	"authguard/internal/device"
	"authguard/internal/models"
	"authguard/internal/notification"
	"authguard/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type deviceFixture struct {
	svc      *device.Service
	accounts *testutil.FakeAccountRepository
	devices  *testutil.FakeDeviceRepository
	subs     *testutil.FakeSubscriptionService
	notifier *testutil.FakeNotifier
	account  *models.Account
}

func newDeviceFixture(t *testing.T, paid bool) *deviceFixture {
	t.Helper()
	cfg := testutil.TestConfig()
	accounts := testutil.NewFakeAccountRepository()
	devices := testutil.NewFakeDeviceRepository()
	subs := testutil.NewFakeSubscriptionService()
	notifier := testutil.NewFakeNotifier()

	account := &models.Account{Email: "bob@example.com", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, accounts.Create(context.Background(), account))
	subs.SetPaid(account.ID, paid)

	return &deviceFixture{
		svc:      device.NewService(cfg, accounts, devices, subs, notifier),
		accounts: accounts,
		devices:  devices,
		subs:     subs,
		notifier: notifier,
		account:  account,
	}
}

func (f *deviceFixture) present(t *testing.T, fingerprint string) *device.Result {
	t.Helper()
	result, err := f.svc.ValidateOrRegister(context.Background(), f.account.ID, fingerprint)
	require.NoError(t, err)
	return result
}

func TestFreeTierBypassesPolicy(t *testing.T) {
	f := newDeviceFixture(t, false)

	for i := 0; i < 10; i++ {
		result := f.present(t, uuid.NewString())
		require.Equal(t, device.StatusAllowed, result.Status)
	}

	account, err := f.accounts.GetByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.Zero(t, account.DeviceChangeCount, "free tier never touches the counter")
	require.False(t, account.DeviceLocked)
}

func TestFirstRegistrationAllowed(t *testing.T) {
	f := newDeviceFixture(t, true)

	result := f.present(t, "fingerprint-one")
	require.Equal(t, device.StatusAllowed, result.Status)
	require.NotNil(t, result.Device)
	require.True(t, result.Device.IsActive)
	require.NotNil(t, result.Event)
	require.Equal(t, 1, result.Event.ChangeNumber)
}

func TestSameFingerprintIsNotAChange(t *testing.T) {
	f := newDeviceFixture(t, true)

	first := f.present(t, "fingerprint-one")
	second := f.present(t, "fingerprint-one")

	require.Equal(t, device.StatusAllowed, second.Status)
	require.Nil(t, second.Event, "re-presenting the active device writes no ledger entry")
	require.Equal(t, first.Device.ID, second.Device.ID)

	account, err := f.accounts.GetByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.Equal(t, 1, account.DeviceChangeCount)
}

func TestWarningAtThreshold(t *testing.T) {
	f := newDeviceFixture(t, true)
	cfg := testutil.TestConfig()

	f.present(t, "fp-1")
	f.present(t, "fp-2")
	result := f.present(t, "fp-3")

	require.Equal(t, device.StatusWarned, result.Status)
	require.Equal(t, cfg.Device.LockAtChange-1-cfg.Device.WarnAtChange, result.ChangesRemaining)
	require.Equal(t, models.DeviceChangeWarned, result.Event.Status)
	require.Contains(t, f.notifier.Sent, notification.EventDeviceChangeWarning)

	// The warned device still works.
	require.True(t, result.Device.IsActive)
}

func TestLockAtThreshold(t *testing.T) {
	f := newDeviceFixture(t, true)

	for i := 1; i <= 5; i++ {
		f.present(t, uuid.NewString())
	}
	result := f.present(t, "fp-final")

	require.Equal(t, device.StatusLocked, result.Status)
	require.Equal(t, 6, result.Event.ChangeNumber)
	require.Equal(t, models.DeviceChangeLocked, result.Event.Status)
	require.False(t, result.Device.IsActive, "the locking device is recorded but not activated")
	require.Contains(t, f.notifier.Sent, notification.EventDeviceLocked)

	account, err := f.accounts.GetByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.True(t, account.DeviceLocked)
}

func TestChangesBeyondLockStayLocked(t *testing.T) {
	f := newDeviceFixture(t, true)

	for i := 1; i <= 6; i++ {
		f.present(t, uuid.NewString())
	}
	result := f.present(t, "yet-another")

	require.Equal(t, device.StatusLocked, result.Status)
	require.Equal(t, 7, result.Event.ChangeNumber)
}

func TestNotifierFailureDoesNotBlock(t *testing.T) {
	f := newDeviceFixture(t, true)
	f.notifier.Err = errors.New("smtp down")

	f.present(t, "fp-1")
	f.present(t, "fp-2")
	result := f.present(t, "fp-3")

	require.Equal(t, device.StatusWarned, result.Status)
}

func TestAdminApproveLiftsLock(t *testing.T) {
	f := newDeviceFixture(t, true)

	for i := 1; i <= 5; i++ {
		f.present(t, uuid.NewString())
	}
	locked := f.present(t, "fp-final")
	require.Equal(t, device.StatusLocked, locked.Status)

	require.NoError(t, f.svc.AdminReview(context.Background(), locked.Event.ID, true))

	account, err := f.accounts.GetByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.False(t, account.DeviceLocked)
	require.Equal(t, 6, account.DeviceChangeCount, "approval never resets the lifetime counter")

	active, err := f.devices.GetActive(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.Equal(t, locked.Device.ID, active.ID, "the requested device becomes active")

	// Re-presenting the approved device passes without a new change.
	result := f.present(t, "fp-final")
	require.Equal(t, device.StatusAllowed, result.Status)
	require.Nil(t, result.Event)
}

func TestAdminRejectKeepsLock(t *testing.T) {
	f := newDeviceFixture(t, true)

	for i := 1; i <= 5; i++ {
		f.present(t, uuid.NewString())
	}
	locked := f.present(t, "fp-final")

	require.NoError(t, f.svc.AdminReview(context.Background(), locked.Event.ID, false))

	account, err := f.accounts.GetByID(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.True(t, account.DeviceLocked)
}

func TestAdminReviewRejectsNonLockedEvent(t *testing.T) {
	f := newDeviceFixture(t, true)

	result := f.present(t, "fp-1")
	err := f.svc.AdminReview(context.Background(), result.Event.ID, true)
	require.ErrorIs(t, err, device.ErrNotPendingReview)
}

func TestHistoryListsDevices(t *testing.T) {
	f := newDeviceFixture(t, true)

	f.present(t, "fp-1")
	f.present(t, "fp-2")

	history, err := f.svc.History(context.Background(), f.account.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestFingerprintHashIsStable(t *testing.T) {
	require.Equal(t, device.FingerprintHash("abc"), device.FingerprintHash("abc"))
	require.NotEqual(t, device.FingerprintHash("abc"), device.FingerprintHash("abd"))
	require.Len(t, device.FingerprintHash("abc"), 64)
}
