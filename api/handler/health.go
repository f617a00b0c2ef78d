package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pricecheck/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/health. It never fails.
func Health(engineName string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "ok",
			Message:   models.MsgHealthy,
			Timestamp: models.Timestamp(time.Now()),
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Engine:    engineName,
			Version:   Version,
		})
	}
}
