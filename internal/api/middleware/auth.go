package middleware

import (
	"log"
	"net/http"
	"strings"
	"authguard/internal/auth"
	"authguard/internal/models"
	"authguard/internal/repository"
	"authguard/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	authService *auth.Service
	accountRepo repository.AccountRepository
	subs        subscription.Service
}

func NewAuthMiddleware(authService *auth.Service, accountRepo repository.AccountRepository, subs subscription.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		accountRepo: accountRepo,
		subs:        subs,
	}
}

// AuthRequired validates the bearer token and loads the full account into
// the request context under "account".
func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "no authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims, err := m.authService.ValidateAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		accountID, err := uuid.Parse(claims.Subject)
		if err != nil {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		account, err := m.accountRepo.GetByID(c.Request.Context(), accountID)
		if err != nil {
			abortUnauthorized(c, "account not found")
			return
		}
		if !account.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.NewErrorEnvelope(http.StatusForbidden, "account is disabled"))
			return
		}

		c.Set("account", account)
		c.Set("is_admin", account.Role == models.RoleAdmin)

		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists || !isAdmin.(bool) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.NewErrorEnvelope(http.StatusForbidden, "admin access required"))
			return
		}
		c.Next()
	}
}

// DeviceGuard blocks paid accounts whose device identity is locked pending
// review. Free-tier accounts are never subject to the device policy. If the
// subscription lookup fails the request proceeds; the lock flag itself is
// authoritative and the tier check only exists to exempt free accounts.
func (m *AuthMiddleware) DeviceGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := MustAccount(c)
		if !account.DeviceLocked {
			c.Next()
			return
		}

		paid, err := m.subs.IsPaidTier(c.Request.Context(), account.ID)
		if err != nil {
			log.Printf("subscription lookup failed for %s: %v", account.ID, err)
			paid = true
		}
		if !paid {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			models.NewErrorEnvelope(http.StatusForbidden, "device identity locked pending review"))
	}
}

// MustAccount returns the account placed in the context by AuthRequired.
// It panics when called from a route that is not behind AuthRequired.
func MustAccount(c *gin.Context) *models.Account {
	return c.MustGet("account").(*models.Account)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		models.NewErrorEnvelope(http.StatusUnauthorized, message))
}
