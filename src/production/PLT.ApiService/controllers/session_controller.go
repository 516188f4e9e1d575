package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	service "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/sessions"
	"gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/middleware"
)

// SessionController handles data-session requests
type SessionController struct {
	sessionService *service.SessionService
	authMiddleware *middleware.AuthMiddleware
}

// NewSessionController creates a new session controller
func NewSessionController(sessionService *service.SessionService, authMiddleware *middleware.AuthMiddleware) *SessionController {
	return &SessionController{
		sessionService: sessionService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the session routes with Gin
func (h *SessionController) RegisterRoutes(router *gin.Engine) {
	sessions := router.Group("/api/v1/sessions", h.authMiddleware.Authenticate())
	{
		sessions.POST("", h.CreateSession)

		// Cross-user listing is admin only; the filtered queries are
		// always scoped to the caller.
		sessions.GET("", h.authMiddleware.RequireAdmin(), h.AllSessions)
		sessions.GET("/city/:city", h.SessionsByCity)
		sessions.GET("/location/:location", h.SessionsByLocation)
		sessions.GET("/nickname/:nickname", h.SessionsByPiNickname)
		sessions.GET("/pi/:piId", h.SessionsByPi)
		sessions.GET("/:id/token", h.SessionToken)
	}
}

// CreateSession persists a data session for one of the caller's pis and
// returns the record with its long-lived token.
func (h *SessionController) CreateSession(c *gin.Context) {
	caller, _ := middleware.GetUserFromGinContext(c)

	var req service.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "message": err.Error()})
		return
	}

	result, err := h.sessionService.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// AllSessions returns one record per user with every matched session.
func (h *SessionController) AllSessions(c *gin.Context) {
	results, err := h.sessionService.AllSessionsByUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// SessionsByCity returns the caller's sessions recorded in a city.
func (h *SessionController) SessionsByCity(c *gin.Context) {
	caller, _ := middleware.GetUserFromGinContext(c)

	sessions, err := h.sessionService.SessionsByCity(c.Request.Context(), c.Param("city"), caller.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// SessionsByLocation returns the caller's sessions recorded at an in-house
// location.
func (h *SessionController) SessionsByLocation(c *gin.Context) {
	caller, _ := middleware.GetUserFromGinContext(c)

	sessions, err := h.sessionService.SessionsByLocation(c.Request.Context(), c.Param("location"), caller.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// SessionsByPiNickname returns the sessions of the caller's pis with a
// nickname.
func (h *SessionController) SessionsByPiNickname(c *gin.Context) {
	caller, _ := middleware.GetUserFromGinContext(c)

	sessions, err := h.sessionService.SessionsByPiNickname(c.Request.Context(), c.Param("nickname"), caller.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// SessionsByPi lists the stored sessions of one of the caller's pis.
func (h *SessionController) SessionsByPi(c *gin.Context) {
	caller, _ := middleware.GetUserFromGinContext(c)

	sessions, err := h.sessionService.SessionsByPi(c.Request.Context(), caller, c.Param("piId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// SessionToken mints the long-lived token for a stored session.
func (h *SessionController) SessionToken(c *gin.Context) {
	caller, _ := middleware.GetUserFromGinContext(c)

	token, err := h.sessionService.SessionToken(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dataSessionToken": token})
}
