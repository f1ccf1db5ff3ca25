package middleware

import (
	"strconv"
	"strings"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/internal/utils"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const contextUserKey = "auth_user"

// AuthUser is the authenticated caller attached to the request context.
type AuthUser struct {
	ID          uint
	Name        string
	Email       string
	Role        models.Role
	WorkspaceID uint
}

// AuthRequired verifies the bearer token and loads the user row so that
// deactivated or deleted accounts are rejected even with a valid token.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("id = ? AND is_active = ?", claims.UserID, true).
			First(&user).Error; err != nil {
			response.Unauthorized(c, "user not found or inactive")
			c.Abort()
			return
		}

		authUser := &AuthUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		}
		if user.WorkspaceID != nil {
			authUser.WorkspaceID = *user.WorkspaceID
		}

		c.Set(contextUserKey, authUser)
		c.Next()
	}
}

// FounderRequired rejects callers without the founder role. Must run after
// AuthRequired.
func FounderRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleFounder {
			response.Forbidden(c, "founder role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// WorkspaceAccess rejects callers whose workspace does not match the target
// workspace resolved from the route param or request body. Falls back to the
// caller's own workspace when neither is present.
func WorkspaceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		target := user.WorkspaceID
		if param := c.Param("workspace_id"); param != "" {
			id, err := strconv.ParseUint(param, 10, 32)
			if err != nil {
				response.BadRequest(c, "invalid workspace id")
				c.Abort()
				return
			}
			target = uint(id)
		}

		if target != user.WorkspaceID {
			response.Forbidden(c, "you do not belong to this workspace")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user from context, or nil.
func CurrentUser(c *gin.Context) *AuthUser {
	if v, exists := c.Get(contextUserKey); exists {
		if user, ok := v.(*AuthUser); ok {
			return user
		}
	}
	return nil
}
