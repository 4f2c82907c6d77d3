package handlers

import (
	"database/sql"
	"net/http"
	"time"
	"authguard/internal/models"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check godoc
// @Summary Health check
// @Description Returns ok when the service and its database are reachable
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable", Time: time.Now().UTC()})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "healthy", Time: time.Now().UTC()})
}
