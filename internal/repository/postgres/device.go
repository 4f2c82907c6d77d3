package postgres

import (
	"context"
	"database/sql"
	"time"
	"authguard/internal/models"
	"authguard/internal/repository"

	"github.com/google/uuid"
)

type deviceRepository struct {
	repository.BaseRepository
}

// NewDeviceRepository creates a new PostgreSQL device repository
func NewDeviceRepository(db *sql.DB) repository.DeviceRepository {
	return &deviceRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const deviceColumns = `id, account_id, fingerprint_hash, is_active, first_seen_at, last_seen_at`

func (r *deviceRepository) scanDevice(row *sql.Row) (*models.DeviceRecord, error) {
	device := &models.DeviceRecord{}
	err := row.Scan(
		&device.ID,
		&device.AccountID,
		&device.FingerprintHash,
		&device.IsActive,
		&device.FirstSeenAt,
		&device.LastSeenAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return device, nil
}

func (r *deviceRepository) GetActive(ctx context.Context, accountID uuid.UUID) (*models.DeviceRecord, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE account_id = $1 AND is_active = true`
	return r.scanDevice(r.DB().QueryRowContext(ctx, query, accountID))
}

func (r *deviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DeviceRecord, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`
	return r.scanDevice(r.DB().QueryRowContext(ctx, query, id))
}

func (r *deviceRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.DeviceRecord, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE account_id = $1 ORDER BY first_seen_at DESC`

	rows, err := r.DB().QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []models.DeviceRecord
	for rows.Next() {
		var device models.DeviceRecord
		err := rows.Scan(
			&device.ID,
			&device.AccountID,
			&device.FingerprintHash,
			&device.IsActive,
			&device.FirstSeenAt,
			&device.LastSeenAt,
		)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *deviceRepository) Register(ctx context.Context, device *models.DeviceRecord, activate bool) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	now := time.Now()
	if device.FirstSeenAt.IsZero() {
		device.FirstSeenAt = now
	}
	if device.LastSeenAt.IsZero() {
		device.LastSeenAt = now
	}
	device.IsActive = activate

	return r.Transaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if activate {
			if _, err := tx.ExecContext(ctx,
				`UPDATE devices SET is_active = false WHERE account_id = $1 AND is_active = true`,
				device.AccountID,
			); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO devices (id, account_id, fingerprint_hash, is_active, first_seen_at, last_seen_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			device.ID,
			device.AccountID,
			device.FingerprintHash,
			device.IsActive,
			device.FirstSeenAt,
			device.LastSeenAt,
		)
		return err
	})
}

func (r *deviceRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var accountID uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT account_id FROM devices WHERE id = $1`, id).Scan(&accountID)
		if err == sql.ErrNoRows {
			return repository.ErrDeviceNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE devices SET is_active = false WHERE account_id = $1 AND is_active = true`,
			accountID,
		); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE devices SET is_active = true, last_seen_at = $2 WHERE id = $1`,
			id, time.Now(),
		)
		return err
	})
}

func (r *deviceRepository) TouchLastSeen(ctx context.Context, id uuid.UUID, seenAt time.Time) error {
	_, err := r.DB().ExecContext(ctx,
		`UPDATE devices SET last_seen_at = $2 WHERE id = $1`,
		id, seenAt,
	)
	return err
}

func (r *deviceRepository) CreateChangeEvent(ctx context.Context, event *models.DeviceChangeEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO device_change_events (
			id, account_id, old_device_id, new_device_id, change_number, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID,
		event.AccountID,
		event.OldDeviceID,
		event.NewDeviceID,
		event.ChangeNumber,
		event.Status,
		event.CreatedAt,
	)
	return err
}

func (r *deviceRepository) GetChangeEvent(ctx context.Context, id uuid.UUID) (*models.DeviceChangeEvent, error) {
	event := &models.DeviceChangeEvent{}
	query := `
		SELECT id, account_id, old_device_id, new_device_id, change_number, status, created_at
		FROM device_change_events
		WHERE id = $1`

	err := r.DB().QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.AccountID,
		&event.OldDeviceID,
		&event.NewDeviceID,
		&event.ChangeNumber,
		&event.Status,
		&event.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrChangeEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *deviceRepository) ListChangeEvents(ctx context.Context, accountID uuid.UUID) ([]models.DeviceChangeEvent, error) {
	query := `
		SELECT id, account_id, old_device_id, new_device_id, change_number, status, created_at
		FROM device_change_events
		WHERE account_id = $1
		ORDER BY change_number DESC`

	rows, err := r.DB().QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.DeviceChangeEvent
	for rows.Next() {
		var event models.DeviceChangeEvent
		err := rows.Scan(
			&event.ID,
			&event.AccountID,
			&event.OldDeviceID,
			&event.NewDeviceID,
			&event.ChangeNumber,
			&event.Status,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
