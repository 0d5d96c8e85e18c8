package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/token"
)

const ContextPrincipal = "principal"

func AuthMiddleware(tokens *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a Bearer token.")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]), token.TypeAccess)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
			return
		}

		userID, err := claims.UserID()
		if err != nil || !claims.Role.Valid() {
			httperr.Unauthorized(c, "invalid_token_payload", "Invalid token payload.")
			return
		}

		c.Set(ContextPrincipal, authz.Principal{ID: userID, Role: claims.Role})
		c.Next()
	}
}

// Principal returns the caller set by AuthMiddleware.
func Principal(c *gin.Context) authz.Principal {
	return c.MustGet(ContextPrincipal).(authz.Principal)
}
