package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwt "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/jwt"
	rbac "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/rbac"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
)

// Context keys
const (
	UserContextKey = "auth_user"
)

// AuthMiddleware resolves the calling user from an inbound token and
// enforces role gates. The resolved identity is the token snapshot, not a
// fresh store read.
type AuthMiddleware struct {
	jwtService *jwt.Service
	authorizer *rbac.Authorizer
	config     Config
}

// Config holds middleware configuration
type Config struct {
	// HTTP header name for tokens
	TokenHeader string

	// Cookie name for tokens (alternative to the header)
	TokenCookie string
}

// DefaultConfig returns a default middleware configuration
func DefaultConfig() Config {
	return Config{
		TokenHeader: "Authorization",
		TokenCookie: "session",
	}
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *jwt.Service, rbacService *rbac.Service, config Config) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		authorizer: rbac.NewAuthorizer(rbacService),
		config:     config,
	}
}

// extractToken gets a token from either header or cookie
func extractToken(r *http.Request, headerName, cookieName string) string {
	token := r.Header.Get(headerName)
	if token != "" {
		// Handle Authorization: Bearer token format
		if strings.HasPrefix(token, "Bearer ") {
			return strings.TrimPrefix(token, "Bearer ")
		}
		return token
	}

	if cookieName != "" {
		cookie, err := r.Cookie(cookieName)
		if err == nil {
			return cookie.Value
		}
	}

	return ""
}

// Authenticate verifies the session token and stores the reconstructed
// user snapshot in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.Request, m.config.TokenHeader, m.config.TokenCookie)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		user, err := m.jwtService.DecodeUserToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Invalid session token",
			})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// RequireAdmin ensures the calling user has the admin role. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromGinContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		if err := m.authorizer.RequireAdmin(user.Role); err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  http.StatusForbidden,
				"message": rbac.AdminRequiredMessage,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserFromGinContext returns the resolved caller snapshot.
func GetUserFromGinContext(c *gin.Context) (*pltmodels.User, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*pltmodels.User)
	return user, ok
}
