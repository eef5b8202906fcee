package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tumbluv/tumbluv-api/internal/constants"
	apierrors "github.com/tumbluv/tumbluv-api/internal/errors"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/services"
)

// Authenticator resolves request credentials to users
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

var (
	errNoCredentials = errors.New("no credentials")
)

// RequireAuth rejects requests without a valid token or session
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, auth)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				apierrors.Unauthorized(c, apierrors.CodeInvalidUser)
				return
			}
			apierrors.Unauthorized(c, apierrors.CodeInvalidToken)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth identifies the user when it can and never rejects
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveUser(c, auth); err == nil {
			setUser(c, user)
		}
		c.Next()
	}
}

// resolveUser prefers the Authorization header and falls back to the
// cookie session
func resolveUser(c *gin.Context, auth Authenticator) (*models.User, error) {
	if token := bearerToken(c.GetHeader("Authorization")); token != "" {
		return auth.Authenticate(c.Request.Context(), token)
	}

	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil, errNoCredentials
	}
	session := sessions.Default(c)
	userID, ok := toUserID(session.Get(constants.ContextKeyUserID))
	if !ok {
		return nil, errNoCredentials
	}
	return auth.GetUser(c.Request.Context(), userID)
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUser, user)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
