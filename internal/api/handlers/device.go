package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"authguard/internal/device"
	"authguard/internal/models"
	"authguard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeviceHandler handles HTTP requests for device registration, history
// and admin review of locked change events.
type DeviceHandler struct {
	deviceService *device.Service
	auditRepo     repository.AuditLogRepository
}

// NewDeviceHandler creates a new device handler with the given dependencies
func NewDeviceHandler(deviceService *device.Service, auditRepo repository.AuditLogRepository) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
		auditRepo:     auditRepo,
	}
}

// Register godoc
// @Summary Register or validate a device
// @Description Present the caller's device fingerprint. A new fingerprint counts as a device change; the response carries a warning near the threshold and a lock status at it.
// @Tags devices
// @Accept json
// @Produce json
// @Param request body models.RegisterDeviceRequest true "Device fingerprint"
// @Success 200 {object} models.Envelope{data=models.DeviceCheckResult} "Device accepted"
// @Failure 400 {object} models.Envelope "Invalid request format"
// @Failure 401 {object} models.Envelope "Missing or invalid access token"
// @Failure 403 {object} models.Envelope "Device identity locked pending review"
// @Failure 429 {object} models.Envelope "Rate limit exceeded"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Security BearerAuth
// @Router /devices/register [post]
func (h *DeviceHandler) Register(c *gin.Context) {
	account := mustAccount(c)

	var req models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.deviceService.ValidateOrRegister(c.Request.Context(), account.ID, req.Fingerprint)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to process device"))
		return
	}

	if result.Event != nil {
		action := models.AuditActionDeviceChange
		if result.Status == device.StatusLocked {
			action = models.AuditActionDeviceLocked
		}
		h.auditDevice(c, account.ID, action, result.Event)
	}

	payload := models.DeviceCheckResult{
		Status: string(result.Status),
		Device: result.Device,
	}

	switch result.Status {
	case device.StatusLocked:
		c.JSON(http.StatusForbidden, models.NewEnvelope(http.StatusForbidden, "device identity locked pending review", payload))
		return
	case device.StatusWarned:
		remaining := result.ChangesRemaining
		warning := fmt.Sprintf("device changed %d times; %d more before your account is locked for review", result.Event.ChangeNumber, remaining)
		payload.ChangesRemaining = &remaining
		payload.Warning = &warning
	}

	c.JSON(http.StatusOK, models.NewEnvelope(http.StatusOK, "device accepted", payload))
}

// List godoc
// @Summary List registered devices
// @Description List the caller's device history, newest first
// @Tags devices
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.DeviceRecord}
// @Failure 401 {object} models.Envelope "Missing or invalid access token"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Security BearerAuth
// @Router /devices [get]
func (h *DeviceHandler) List(c *gin.Context) {
	account := mustAccount(c)

	devices, err := h.deviceService.History(c.Request.Context(), account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to list devices"))
		return
	}

	c.JSON(http.StatusOK, models.NewEnvelope(http.StatusOK, "devices", devices))
}

// Review godoc
// @Summary Review a locked device change
// @Description Admin decision on a change event that locked an account. Approve activates the new device and lifts the lock; reject leaves the account locked. The lifetime change counter is never reset.
// @Tags devices
// @Accept json
// @Produce json
// @Param id path string true "Change event ID"
// @Param request body models.AdminReviewRequest true "Decision"
// @Success 200 {object} models.Envelope "Review recorded"
// @Failure 400 {object} models.Envelope "Invalid request or event not pending review"
// @Failure 401 {object} models.Envelope "Missing or invalid access token"
// @Failure 403 {object} models.Envelope "Admin access required"
// @Failure 404 {object} models.Envelope "Change event not found"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Security BearerAuth
// @Router /devices/changes/{id}/review [post]
func (h *DeviceHandler) Review(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, "invalid change event id"))
		return
	}

	var req models.AdminReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
		return
	}
	approve := req.Decision == "approve"

	if err := h.deviceService.AdminReview(c.Request.Context(), eventID, approve); err != nil {
		switch {
		case errors.Is(err, repository.ErrChangeEventNotFound):
			c.JSON(http.StatusNotFound, models.NewErrorEnvelope(http.StatusNotFound, "change event not found"))
		case errors.Is(err, device.ErrNotPendingReview):
			c.JSON(http.StatusBadRequest, models.NewErrorEnvelope(http.StatusBadRequest, "change event is not pending review"))
		default:
			c.JSON(http.StatusInternalServerError, models.NewErrorEnvelope(http.StatusInternalServerError, "failed to review change"))
		}
		return
	}

	if approve {
		event, err := h.deviceService.ChangeEvent(c.Request.Context(), eventID)
		if err == nil {
			h.auditDevice(c, event.AccountID, models.AuditActionDeviceUnlock, event)
		}
		c.JSON(http.StatusOK, models.NewEnvelope(http.StatusOK, "device change approved", nil))
		return
	}

	c.JSON(http.StatusOK, models.NewEnvelope(http.StatusOK, "device change rejected", nil))
}

func (h *DeviceHandler) auditDevice(c *gin.Context, accountID uuid.UUID, action models.AuditAction, event *models.DeviceChangeEvent) {
	id := accountID
	entry := &models.CreateAuditLogRequest{
		AccountID:   &id,
		Action:      action,
		EntityType:  "device_change_event",
		EntityID:    event.ID.String(),
		Description: fmt.Sprintf("device change %d recorded as %s", event.ChangeNumber, event.Status),
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	}
	if err := h.auditRepo.Create(c.Request.Context(), entry); err != nil {
		log.Printf("Failed to create audit log: %v", err)
	}
}
