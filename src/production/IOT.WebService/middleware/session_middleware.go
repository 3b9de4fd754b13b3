package middleware

import (
	"context"
	"errors"
	"net/http"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Key types for request context
type contextKey string

const (
	// Context keys
	UserIDContextKey       contextKey = "user_id"
	UserNameContextKey     contextKey = "user_name"
	SessionTokenContextKey contextKey = "session_token"
)

// SessionResolver resolves a cookie token to a live session, nil when the
// token is unknown or expired.
type SessionResolver interface {
	Get(ctx context.Context, token string) (*iotmodels.Session, error)
}

// SessionMiddleware provides the authentication gate for protected routes
type SessionMiddleware struct {
	sessions SessionResolver
	config   Config
}

// Config holds middleware configuration
type Config struct {
	// Cookie carrying the opaque session token
	CookieName string

	// Where browser routes send unauthenticated requests
	LoginPath string
}

// DefaultConfig returns a default middleware configuration
func DefaultConfig() Config {
	return Config{
		CookieName: "home_session",
		LoginPath:  "/login",
	}
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(sessions SessionResolver, config Config) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		config:   config,
	}
}

// resolve pulls the cookie and looks up its session. Missing cookie, unknown
// token and expired session are all the same "unauthenticated" outcome.
func (m *SessionMiddleware) resolve(c *gin.Context) *iotmodels.Session {
	token, err := c.Cookie(m.config.CookieName)
	if err != nil || token == "" {
		return nil
	}

	session, err := m.sessions.Get(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return session
}

func (m *SessionMiddleware) setContext(c *gin.Context, session *iotmodels.Session) {
	c.Set(string(UserIDContextKey), session.UserID)
	c.Set(string(UserNameContextKey), session.UserName)
	c.Set(string(SessionTokenContextKey), session.Token)
}

// RequireSession gates browser routes; unauthenticated requests are
// redirected to the login page.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := m.resolve(c)
		if session == nil {
			c.Redirect(http.StatusFound, m.config.LoginPath)
			c.Abort()
			return
		}

		m.setContext(c, session)
		c.Next()
	}
}

// RequireSessionAPI gates API routes; unauthenticated requests get a
// structured 401 body instead of a redirect.
func (m *SessionMiddleware) RequireSessionAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := m.resolve(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
			c.Abort()
			return
		}

		m.setContext(c, session)
		c.Next()
	}
}

// CurrentSession resolves the request's session without gating, for routes
// that only branch on authentication state.
func (m *SessionMiddleware) CurrentSession(c *gin.Context) *iotmodels.Session {
	return m.resolve(c)
}

// GetUserFromGinContext extracts the authenticated user id from the gin context
func GetUserFromGinContext(c *gin.Context) (primitive.ObjectID, error) {
	value, ok := c.Get(string(UserIDContextKey))
	if !ok {
		return primitive.NilObjectID, errors.New("user not found in context")
	}

	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user id in context")
	}
	return userID, nil
}

// GetUserNameFromGinContext extracts the cached display name from the gin context
func GetUserNameFromGinContext(c *gin.Context) (string, error) {
	value, ok := c.Get(string(UserNameContextKey))
	if !ok {
		return "", errors.New("user name not found in context")
	}

	name, ok := value.(string)
	if !ok {
		return "", errors.New("invalid user name in context")
	}
	return name, nil
}

// GetTokenFromGinContext extracts the session token from the gin context
func GetTokenFromGinContext(c *gin.Context) (string, error) {
	value, ok := c.Get(string(SessionTokenContextKey))
	if !ok {
		return "", errors.New("session token not found in context")
	}

	token, ok := value.(string)
	if !ok {
		return "", errors.New("invalid session token in context")
	}
	return token, nil
}
