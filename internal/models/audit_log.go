package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of security event recorded
type AuditAction string

const (
	AuditActionRegister      AuditAction = "account_registered"
	AuditActionLoginSuccess  AuditAction = "login_success"
	AuditActionLoginFailed   AuditAction = "login_failed"
	AuditActionAccountLocked AuditAction = "account_locked"
	AuditActionTokenRefresh  AuditAction = "token_refreshed"
	AuditActionTokenReuse    AuditAction = "token_reuse_detected"
	AuditActionLogout        AuditAction = "logout"
	AuditActionDeviceChange  AuditAction = "device_change"
	AuditActionDeviceLocked  AuditAction = "device_locked"
	AuditActionDeviceUnlock  AuditAction = "device_unlocked"
)

// AuditLog represents a record of a security-relevant event
type AuditLog struct {
	ID          uuid.UUID   `json:"id"`
	AccountID   *uuid.UUID  `json:"account_id"` // nil for events with no resolved account
	Action      AuditAction `json:"action"`
	EntityType  string      `json:"entity_type"`
	EntityID    string      `json:"entity_id"`
	Description string      `json:"description"`
	Metadata    string      `json:"metadata"`
	IPAddress   string      `json:"ip_address"`
	UserAgent   string      `json:"user_agent"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CreateAuditLogRequest represents a new audit log entry prior to insertion
type CreateAuditLogRequest struct {
	AccountID   *uuid.UUID  `json:"account_id"`
	Action      AuditAction `json:"action" binding:"required"`
	EntityType  string      `json:"entity_type" binding:"required"`
	EntityID    string      `json:"entity_id"`
	Description string      `json:"description" binding:"required"`
	Metadata    string      `json:"metadata"`
	IPAddress   string      `json:"ip_address"`
	UserAgent   string      `json:"user_agent"`
}
