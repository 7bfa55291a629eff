package controllers

import (
	"net/http"

	"github.com/Danibruno18/credix/services"
	"github.com/gin-gonic/gin"
)

// Version версия API, отдается в корневом маршруте
const Version = "1.0.0"

type HealthController struct {
	clock services.Clock
}

func NewHealthController(clock services.Clock) *HealthController {
	return &HealthController{clock: clock}
}

func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Financial API is running", "version": Version})
}

func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": c.clock.Now().Format("2006-01-02T15:04:05.000000Z07:00"),
	})
}
