package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/auth"
	"github.com/solestep/solestep-api/internal/model"
)

const authUserKey = "authUser"

// UserLoader is the slice of the user store the middleware needs to
// confirm that a token still belongs to an active account.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type AuthMiddleware struct {
	jwt    *auth.JWTManager
	users  UserLoader
	logger *zap.Logger
}

func NewAuthMiddleware(jwt *auth.JWTManager, users UserLoader, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users, logger: logger}
}

// Authenticate verifies the Bearer token and attaches the acting user's
// identity to the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token format"})
			return
		}

		claims, err := m.jwt.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			m.logger.Error("Failed to load user for token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error authenticating request"})
			return
		}
		if user == nil || user.Status != model.StatusActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or inactive user"})
			return
		}

		SetCurrentUser(c, model.AuthUser{
			UserID:    user.ID,
			FirstName: user.FirstName,
			Role:      user.Role,
		})
		c.Next()
	}
}

// RequireModule gates a route on role permissions: the caller needs access
// to at least one of the named modules.
func (m *AuthMiddleware) RequireModule(modules ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User role not found"})
			return
		}

		if !auth.HasModuleAccess(user.Role, modules...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Access denied: You don't have permission to access " + strings.Join(modules, " or "),
			})
			return
		}
		c.Next()
	}
}

// SetCurrentUser attaches an authenticated identity to the request.
func SetCurrentUser(c *gin.Context, user model.AuthUser) {
	c.Set(authUserKey, user)
}

// CurrentUser returns the authenticated identity set by Authenticate.
func CurrentUser(c *gin.Context) (model.AuthUser, bool) {
	v, ok := c.Get(authUserKey)
	if !ok {
		return model.AuthUser{}, false
	}
	user, ok := v.(model.AuthUser)
	return user, ok
}
