package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	jwt "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/jwt"
	rbac "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/rbac"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
	api_models "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models/api"
)

func newTestMiddleware() (*AuthMiddleware, *jwt.Service) {
	jwtService := jwt.NewService(api_models.Config{
		SecretKey:            "test-secret",
		Issuer:               "plt-test",
		UserTokenDuration:    time.Hour,
		SessionTokenDuration: time.Hour,
	})
	return NewAuthMiddleware(jwtService, rbac.NewService(), DefaultConfig()), jwtService
}

func newTestRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{m.Authenticate()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, ok := GetUserFromGinContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	router.GET("/protected", handlers...)
	return router
}

func issueToken(t *testing.T, jwtService *jwt.Service, role string) string {
	t.Helper()
	token, err := jwtService.IssueUserToken(&pltmodels.User{
		ID:    primitive.NewObjectID(),
		Email: "pi@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	m, _ := newTestMiddleware()
	router := newTestRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	m, _ := newTestMiddleware()
	router := newTestRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid session token")
}

func TestAuthenticateAcceptsBearerHeader(t *testing.T) {
	m, jwtService := newTestMiddleware()
	router := newTestRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, pltmodels.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pi@example.com")
}

func TestAuthenticateAcceptsSessionCookie(t *testing.T) {
	m, jwtService := newTestMiddleware()
	router := newTestRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: issueToken(t, jwtService, pltmodels.RoleUser)})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminForbidsPlainUser(t *testing.T) {
	m, jwtService := newTestMiddleware()
	router := newTestRouter(m, m.RequireAdmin())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, pltmodels.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), rbac.AdminRequiredMessage)
}

func TestRequireAdminPassesAdmin(t *testing.T) {
	m, jwtService := newTestMiddleware()
	router := newTestRouter(m, m.RequireAdmin())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtService, pltmodels.RoleAdmin))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
