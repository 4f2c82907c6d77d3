// Package handlers contains the HTTP handlers for the API.
package handlers

import (
	"authguard/internal/models"

	"github.com/gin-gonic/gin"
)

// mustAccount returns the authenticated account placed in the context by
// the auth middleware. Handlers behind AuthRequired may assume it exists.
func mustAccount(c *gin.Context) *models.Account {
	return c.MustGet("account").(*models.Account)
}
