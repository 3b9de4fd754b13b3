package controllers

import (
	"errors"
	"net/http"

	devices "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/devices"
	"gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/middleware"
	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"

	"github.com/gin-gonic/gin"
)

// StateController handles the device state API
type StateController struct {
	stateService      *devices.StateService
	sessionMiddleware *middleware.SessionMiddleware
	logger            *logger.Logger
}

// NewStateController creates a new state controller
func NewStateController(stateService *devices.StateService, sessionMiddleware *middleware.SessionMiddleware, logger *logger.Logger) *StateController {
	return &StateController{
		stateService:      stateService,
		sessionMiddleware: sessionMiddleware,
		logger:            logger,
	}
}

// GetState returns every device's current state plus a fresh sensor reading
func (h *StateController) GetState(c *gin.Context) {
	userID, err := middleware.GetUserFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	state, err := h.stateService.GetState(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorWithError(err, "failed to assemble state")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "state": state})
}

// Toggle flips a switch device and returns the new state
func (h *StateController) Toggle(c *gin.Context) {
	userID, err := middleware.GetUserFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
		return
	}

	slug := c.Param("slug")
	newState, err := h.stateService.ToggleDevice(c.Request.Context(), userID, slug)
	if err != nil {
		if errors.Is(err, iotmodels.ErrDeviceNotFound) || errors.Is(err, iotmodels.ErrNotSwitchable) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
			return
		}
		h.logger.ErrorWithError(err, "failed to toggle device")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "slug": slug, "state": newState})
}

// RegisterRoutes registers the state API routes with Gin
func (h *StateController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api", h.sessionMiddleware.RequireSessionAPI())
	{
		api.GET("/state", h.GetState)
		api.POST("/toggle/:slug", h.Toggle)
	}
}
