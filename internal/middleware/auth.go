package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/imok-coding/otakulib/internal/models"
	"github.com/imok-coding/otakulib/internal/pkg/jwt"
	"github.com/imok-coding/otakulib/internal/pkg/response"
	sessionpkg "github.com/imok-coding/otakulib/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
	ContextKeyRole   = "role"
)

// Auth returns a middleware that enforces JWT authentication.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateTokenClaims(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		annotate(c, db, claims)
		c.Next()
	}
}

// OptionalAuth sets the identity if a valid token is present, but does not
// block the request. Public routes use this to widen the visible set for
// the admin.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := validateTokenClaims(db, extractToken(c)); err == nil && claims.UserID != "" {
			annotate(c, db, claims)
		}
		c.Next()
	}
}

// RequireAdmin blocks identities without the admin role. The message is
// actionable so a signed-in reader knows re-authentication is the fix.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != models.RoleAdmin {
			response.ForbiddenMsg(c, "this area needs an admin account, sign in with one and retry")
			return
		}
		c.Next()
	}
}

func annotate(c *gin.Context, db *gorm.DB, claims *jwt.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyRole, lookupRole(db, claims.UserID))
	if claims.SessionID != "" {
		c.Set(ContextKeySID, claims.SessionID)
		sessionpkg.Touch(db, claims.UserID, claims.SessionID)
	}
}

// lookupRole resolves the authorization role for a user id. Unknown users
// degrade to the reader role rather than failing the request.
func lookupRole(db *gorm.DB, userID string) string {
	var row struct {
		Role string
	}
	err := db.Table("users").
		Select("role").
		Where("id = ? AND deleted_at IS NULL", userID).
		Scan(&row).Error
	if err != nil || row.Role == "" {
		return models.RoleReader
	}
	return row.Role
}

func validateTokenClaims(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errors.New("session expired or revoked")
	}
	return claims, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// CurrentRole extracts the authorization role from context ("" if anonymous).
func CurrentRole(c *gin.Context) string {
	v, _ := c.Get(ContextKeyRole)
	role, _ := v.(string)
	return role
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

// IsAdmin returns true if the authenticated identity has the admin role.
func IsAdmin(c *gin.Context) bool {
	return CurrentRole(c) == models.RoleAdmin
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
