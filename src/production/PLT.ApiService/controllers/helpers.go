package controllers

import (
	"github.com/gin-gonic/gin"

	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
)

// respondError surfaces a service error unmodified as {status, message}.
func respondError(c *gin.Context, err error) {
	status := plterrors.StatusOf(err)
	c.JSON(status, gin.H{
		"status":  status,
		"message": err.Error(),
	})
}
