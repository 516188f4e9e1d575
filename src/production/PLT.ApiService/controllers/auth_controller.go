package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	service "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/auth"
	"gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/middleware"
)

// AuthController handles authentication and user management requests
type AuthController struct {
	authService    *service.AuthService
	userService    *service.UserService
	authMiddleware *middleware.AuthMiddleware
	cookieMaxAge   time.Duration
}

// NewAuthController creates a new auth controller
func NewAuthController(
	authService *service.AuthService,
	userService *service.UserService,
	authMiddleware *middleware.AuthMiddleware,
	cookieMaxAge time.Duration,
) *AuthController {
	return &AuthController{
		authService:    authService,
		userService:    userService,
		authMiddleware: authMiddleware,
		cookieMaxAge:   cookieMaxAge,
	}
}

// RegisterRoutes registers the auth routes with Gin
func (h *AuthController) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)

		auth.GET("/verify", h.authMiddleware.Authenticate(), h.Verify)
		auth.PATCH("/myPis/:id", h.authMiddleware.Authenticate(), h.AddPi)
		auth.PATCH("/change-role/:id", h.authMiddleware.Authenticate(), h.ChangeRole)
		auth.DELETE("/:id", h.authMiddleware.Authenticate(), h.DeleteUser)

		auth.GET("/users", h.authMiddleware.Authenticate(), h.authMiddleware.RequireAdmin(), h.ListUsers)
		auth.GET("/users/:id", h.authMiddleware.Authenticate(), h.authMiddleware.RequireAdmin(), h.GetUser)
	}
}

// Signup handles user registration. The requested role, if any, is
// validated by the service; omitting it yields the user role.
func (h *AuthController) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, user)
}

// Login handles user login
func (h *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, user)
}

// Logout clears the session cookie
func (h *AuthController) Logout(c *gin.Context) {
	c.SetCookie("session", "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Verify returns the caller's token snapshot. No store read happens here:
// the projection is as of token issuance.
func (h *AuthController) Verify(c *gin.Context) {
	user, ok := middleware.GetUserFromGinContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "message": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, user)
}

type AddPiRequest struct {
	Nickname    string `json:"piNickname" binding:"required"`
	Description string `json:"description"`
}

// AddPi appends a pi to the target user's pi list. The service enforces
// the owner-or-admin gate.
func (h *AuthController) AddPi(c *gin.Context) {
	targetID := c.Param("id")

	caller, _ := middleware.GetUserFromGinContext(c)

	var req AddPiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}

	user, err := h.userService.AddPi(c.Request.Context(), caller.ID.Hex(), caller.Role, targetID, req.Nickname, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole updates a user's role. The service enforces the admin gate.
func (h *AuthController) ChangeRole(c *gin.Context) {
	targetID := c.Param("id")

	caller, _ := middleware.GetUserFromGinContext(c)

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}

	user, err := h.authService.SetRole(c.Request.Context(), caller.Role, targetID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user and returns the pre-deletion projection. The
// service enforces the admin gate.
func (h *AuthController) DeleteUser(c *gin.Context) {
	targetID := c.Param("id")

	caller, _ := middleware.GetUserFromGinContext(c)

	user, err := h.authService.Delete(c.Request.Context(), caller.Role, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers returns all users. Admin only.
func (h *AuthController) ListUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser returns a single user's projection. Admin only.
func (h *AuthController) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(
		"session",
		token,
		int(h.cookieMaxAge.Seconds()),
		"/",
		"",
		false, // Set to true in production with HTTPS
		true,  // HTTP only
	)
}
