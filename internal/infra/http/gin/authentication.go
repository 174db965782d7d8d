package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/auth"
	domainuser "stayfinder/internal/domain/user"
)

const principalContextKey = "stayfinder.principal"

// principal is the resolved authenticated identity attached to the
// request by the auth middleware. Core services receive it explicitly.
type principal struct {
	ID       domainuser.ID
	Username string
	Email    string
	Role     domainuser.Role
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Handle resolves a bearer token when present. Missing or invalid
// tokens leave the request anonymous; route guards decide access.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	account, err := m.Service.Resolve(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidToken) && m.Logger != nil {
			m.Logger.Debug("token resolution failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role,
	})
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
		return principal{}, false
	}
	return p, true
}

func requireRole(c *gin.Context, role domainuser.Role) (principal, bool) {
	p, ok := requireUser(c)
	if !ok {
		return principal{}, false
	}
	if p.Role != role {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
