// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/utils"
)

// bearerClaims extracts and validates the access token, if any.
func bearerClaims(c *gin.Context) (*utils.JWTClaims, bool, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false, nil
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, true, utils.ErrInvalidToken
	}

	claims, err := utils.ValidateJWT(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, true, err
	}
	return claims, true, nil
}

func setSession(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("wallet", claims.Wallet)
	c.Set("role", claims.Role)
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		claims, present, err := bearerClaims(c)
		if !present {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := utils.GetRoleFromContext(c)
		for _, allowed := range roles {
			if role == string(allowed) {
				c.Next()
				return
			}
		}

		utils.ForbiddenResponse(c, "")
		c.Abort()
	}
}

// OptionalAuth attaches the session when a valid token is sent and
// otherwise lets the request through anonymously.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _, err := bearerClaims(c); err == nil && claims != nil {
			setSession(c, claims)
		}
		c.Next()
	}
}
