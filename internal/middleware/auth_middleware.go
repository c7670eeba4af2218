package middleware

import (
	"net/http"
	"strings"

	"club_checkin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextAccountID = "accountID"
	ContextUsername  = "username"
	ContextEmail     = "email"
	ContextUserRole  = "userRole"
	ContextClaims    = "claims"
)

// TokenVerifier is satisfied by services.AuthService.
type TokenVerifier interface {
	VerifyToken(token string) (*utils.Claims, error)
}

// AuthMiddleware requires a bearer token.
// A missing token answers 401; a token that is present but invalid or expired answers 403.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Access token required", ""))
			return
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			utils.LogDebug("Rejected bearer token", map[string]interface{}{"reason": err.Error(), "path": c.Request.URL.Path})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeInvalidToken, "Invalid or expired token", ""))
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// bearerToken extracts the credential of a Bearer header. Other schemes and a bare
// "Bearer" yield no token.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RoleAuthMiddleware checks the role claim set by AuthMiddleware against allowedRoles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr := c.GetString(ContextUserRole)
		if roleStr == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in token claims", ""))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				c.Next()
				return
			}
		}

		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource. Required roles: "+strings.Join(allowedRoles, ", "), ""))
	}
}
