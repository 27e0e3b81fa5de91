package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// userIDKey is the key used to store the authenticated actor's ID.
const userIDKey = contextKey("userID")

// roleKey is the key used to store the authenticated actor's role.
const roleKey = contextKey("role")

// GetUserIDFromContext retrieves the authenticated actor ID from the Gin
// context. It returns the ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal := c.Request.Context().Value(userIDKey)
	if userIDVal == nil {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRoleFromContext retrieves the authenticated actor's role from the Gin
// context.
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	roleVal := c.Request.Context().Value(roleKey)
	if roleVal == nil {
		return "", false
	}
	role, ok := roleVal.(domain.Role)
	if !ok || !role.IsValid() {
		return "", false
	}
	return role, true
}
