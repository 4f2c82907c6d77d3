package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"authguard/internal/models"
	"authguard/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type auditLogRepository struct {
	repository.BaseRepository
}

// NewAuditLogRepository creates a new PostgreSQL audit log repository
func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *models.CreateAuditLogRequest) error {
	query := `
		INSERT INTO audit_logs (
			id, account_id, action, entity_type, entity_id,
			description, metadata, ip_address, user_agent,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`

	_, err := r.DB().ExecContext(ctx, query,
		uuid.New(),
		log.AccountID,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.Description,
		log.Metadata,
		log.IPAddress,
		log.UserAgent,
		time.Now(),
	)
	return err
}

func (r *auditLogRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	var conditions []string
	var params []interface{}

	query := `
		SELECT id, account_id, action, entity_type, entity_id,
			   description, metadata, ip_address, user_agent,
			   created_at
		FROM audit_logs`

	params = append(params, accountID)
	conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(params)))

	if len(filter.Actions) > 0 {
		params = append(params, pq.Array(filter.Actions))
		conditions = append(conditions, fmt.Sprintf("action = ANY($%d)", len(params)))
	}

	if filter.CreatedBefore != nil {
		params = append(params, filter.CreatedBefore)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(params)))
	}

	if filter.CreatedAfter != nil {
		params = append(params, filter.CreatedAfter)
		conditions = append(conditions, fmt.Sprintf("created_at > $%d", len(params)))
	}

	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY created_at DESC"

	if filter.Limit != nil {
		params = append(params, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(params))
	}

	if filter.Offset != nil {
		params = append(params, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(params))
	}

	rows, err := r.DB().QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var log models.AuditLog
		err := rows.Scan(
			&log.ID,
			&log.AccountID,
			&log.Action,
			&log.EntityType,
			&log.EntityID,
			&log.Description,
			&log.Metadata,
			&log.IPAddress,
			&log.UserAgent,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) CleanupOld(ctx context.Context, olderThan time.Duration) error {
	query := `DELETE FROM audit_logs WHERE created_at < $1`
	_, err := r.DB().ExecContext(ctx, query, time.Now().Add(-olderThan))
	return err
}
