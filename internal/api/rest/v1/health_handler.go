package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": Version,
	})
}
