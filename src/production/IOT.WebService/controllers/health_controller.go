package controllers

import (
	"context"
	"net/http"

	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"

	"github.com/gin-gonic/gin"
)

// StoragePinger checks storage connectivity
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// HealthController handles liveness requests
type HealthController struct {
	storage StoragePinger
	logger  *logger.Logger
}

// NewHealthController creates a new health controller
func NewHealthController(storage StoragePinger, logger *logger.Logger) *HealthController {
	return &HealthController{
		storage: storage,
		logger:  logger,
	}
}

// Healthz reports liveness plus storage connectivity. A storage outage
// degrades the report, not the endpoint: the process itself is still up.
func (h *HealthController) Healthz(c *gin.Context) {
	if err := h.storage.Ping(c.Request.Context()); err != nil {
		h.logger.ErrorWithError(err, "storage ping failed")
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"mongo":  "error",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mongo":  "ok",
	})
}

// RegisterRoutes registers the health routes with Gin
func (h *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Healthz)
}
