package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"authguard/internal/auth"
	"authguard/internal/models"
	"authguard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles HTTP requests for registration, login and the
// refresh token lifecycle.
type AuthHandler struct {
	authService *auth.Service
	auditRepo   repository.AuditLogRepository
}

// NewAuthHandler creates a new authentication handler with the given dependencies
func NewAuthHandler(authService *auth.Service, auditRepo repository.AuditLogRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		auditRepo:   auditRepo,
	}
}

// Register godoc
// @Summary Register new account
// @Description Create an account and return an initial token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration details"
// @Success 201 {object} models.Envelope{data=models.TokenPair} "Account created"
// @Failure 400 {object} models.Envelope "Invalid request format or weak password"
// @Failure 409 {object} models.Envelope "Email already registered"
// @Failure 429 {object} models.Envelope "Rate limit exceeded"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
		return
	}

	account, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			c.JSON(http.StatusConflict, models.NewErrorEnvelope(http.StatusConflict, "email already registered"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to create account"))
		return
	}

	h.audit(c, &account.ID, models.AuditActionRegister, "account", account.ID.String(),
		fmt.Sprintf("account %s registered", account.Email), nil)

	pair, err := h.authService.IssueTokenPair(c.Request.Context(), account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to issue tokens"))
		return
	}

	c.JSON(http.StatusCreated, models.NewEnvelope(http.StatusCreated, "account created", pair))
}

// Login godoc
// @Summary Account login
// @Description Verify credentials and return access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.Envelope{data=models.TokenPair} "Login successful"
// @Failure 400 {object} models.Envelope "Invalid request format"
// @Failure 401 {object} models.Envelope "Invalid credentials"
// @Failure 403 {object} models.Envelope "Account locked or disabled"
// @Failure 429 {object} models.Envelope "Rate limit exceeded"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
		return
	}

	account, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.audit(c, nil, models.AuditActionLoginFailed, "account", "",
				"login failed", map[string]interface{}{"email": req.Email})
			c.JSON(http.StatusUnauthorized, models.NewErrorEnvelope(http.StatusUnauthorized, "invalid email or password"))
		case errors.Is(err, auth.ErrAccountLocked):
			h.audit(c, nil, models.AuditActionAccountLocked, "account", "",
				"login rejected, account locked", map[string]interface{}{"email": req.Email})
			c.JSON(http.StatusForbidden, models.NewErrorEnvelope(http.StatusForbidden, "account temporarily locked"))
		case errors.Is(err, auth.ErrAccountDisabled):
			c.JSON(http.StatusForbidden, models.NewErrorEnvelope(http.StatusForbidden, "account is disabled"))
		default:
			c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to process login"))
		}
		return
	}

	pair, err := h.authService.IssueTokenPair(c.Request.Context(), account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to issue tokens"))
		return
	}

	h.audit(c, &account.ID, models.AuditActionLoginSuccess, "account", account.ID.String(),
		fmt.Sprintf("account %s logged in", account.Email), nil)

	c.JSON(http.StatusOK, models.NewEnvelope(http.StatusOK, "login successful", pair))
}

// Refresh godoc
// @Summary Rotate refresh token
// @Description Exchange a refresh token for a new access/refresh pair. The presented token is revoked; reusing a spent token revokes every token for the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.Envelope{data=models.TokenPair} "Tokens rotated"
// @Failure 400 {object} models.Envelope "Invalid request format"
// @Failure 401 {object} models.Envelope "Invalid, expired or reused refresh token"
// @Failure 429 {object} models.Envelope "Rate limit exceeded"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenReused) {
			h.audit(c, nil, models.AuditActionTokenReuse, "refresh_token", "",
				"refresh token reuse detected, token family revoked", nil)
			c.JSON(http.StatusUnauthorized, models.NewErrorEnvelope(http.StatusUnauthorized, "refresh token reuse detected"))
			return
		}
		if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrTokenExpired) {
			c.JSON(http.StatusUnauthorized, models.NewErrorEnvelope(http.StatusUnauthorized, "invalid or expired refresh token"))
			return
		}
		if errors.Is(err, auth.ErrAccountDisabled) {
			c.JSON(http.StatusForbidden, models.NewErrorEnvelope(http.StatusForbidden, "account is disabled"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to refresh tokens"))
		return
	}

	h.audit(c, nil, models.AuditActionTokenRefresh, "refresh_token", "", "refresh token rotated", nil)

	c.JSON(http.StatusOK, models.NewEnvelope(http.StatusOK, "tokens rotated", pair))
}

// Logout godoc
// @Summary Logout
// @Description Revoke the presented refresh token. Idempotent.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LogoutRequest true "Refresh token to revoke"
// @Success 200 {object} models.Envelope "Logged out"
// @Failure 400 {object} models.Envelope "Invalid request format"
// @Failure 401 {object} models.Envelope "Missing or invalid access token"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	account := mustAccount(c)

	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.authService.Revoke(c.Request.Context(), account.ID, req.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, models.NewErrorEnvelope(http.StatusUnauthorized, "invalid refresh token"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to logout"))
		return
	}

	h.audit(c, &account.ID, models.AuditActionLogout, "account", account.ID.String(),
		fmt.Sprintf("account %s logged out", account.Email), nil)

	c.JSON(http.StatusOK, models.NewEnvelope(http.StatusOK, "logged out", nil))
}

// audit records a security event; failures are logged, never surfaced.
func (h *AuthHandler) audit(c *gin.Context, accountID *uuid.UUID, action models.AuditAction, entityType, entityID, description string, metadata map[string]interface{}) {
	var meta string
	if metadata != nil {
		raw, _ := json.Marshal(metadata)
		meta = string(raw)
	}
	entry := &models.CreateAuditLogRequest{
		AccountID:   accountID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Metadata:    meta,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	}
	if err := h.auditRepo.Create(c.Request.Context(), entry); err != nil {
		log.Printf("Failed to create audit log: %v", err)
	}
}
