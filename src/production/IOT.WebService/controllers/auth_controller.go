package controllers

import (
	"errors"
	"net/http"

	auth "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/auth"
	devices "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/devices"
	session "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/session"
	"gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/middleware"
	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls how the session cookie is written
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

// AuthController handles the browser account flow: landing page,
// registration, login, logout and the dashboard.
type AuthController struct {
	authService       *auth.AuthService
	sessionService    *session.Service
	deviceService     *devices.DeviceService
	sessionMiddleware *middleware.SessionMiddleware
	cookie            CookieConfig
	logger            *logger.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(
	authService *auth.AuthService,
	sessionService *session.Service,
	deviceService *devices.DeviceService,
	sessionMiddleware *middleware.SessionMiddleware,
	cookie CookieConfig,
	logger *logger.Logger,
) *AuthController {
	return &AuthController{
		authService:       authService,
		sessionService:    sessionService,
		deviceService:     deviceService,
		sessionMiddleware: sessionMiddleware,
		cookie:            cookie,
		logger:            logger,
	}
}

// Index redirects authenticated users to the dashboard and serves the
// landing body to everyone else.
func (h *AuthController) Index(c *gin.Context) {
	if h.sessionMiddleware.CurrentSession(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "page": "landing"})
}

// RegisterPage serves the registration page body
func (h *AuthController) RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "page": "register"})
}

// Register handles the registration form
func (h *AuthController) Register(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, err := h.authService.Register(c.Request.Context(), name, email, password)
	if err != nil {
		switch {
		case errors.Is(err, iotmodels.ErrValidation), errors.Is(err, iotmodels.ErrDuplicateEmail):
			// recover into the form; the failure stays request-scoped
		default:
			h.logger.ErrorWithError(err, "registration failed")
		}
		c.Redirect(http.StatusFound, "/register")
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// LoginPage serves the login page body
func (h *AuthController) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "page": "login"})
}

// Login handles the login form and starts a session on success
func (h *AuthController) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.authService.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if !errors.Is(err, iotmodels.ErrInvalidCredentials) {
			h.logger.ErrorWithError(err, "login failed")
		}
		c.Redirect(http.StatusFound, "/login")
		return
	}

	sess, err := h.sessionService.Start(c.Request.Context(), user)
	if err != nil {
		h.logger.ErrorWithError(err, "failed to start session")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.SetCookie(
		h.cookie.Name,
		sess.Token,
		h.cookie.MaxAge,
		"/",
		"",
		h.cookie.Secure,
		true, // HTTP only
	)

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout destroys the session and clears the cookie
func (h *AuthController) Logout(c *gin.Context) {
	if token, err := middleware.GetTokenFromGinContext(c); err == nil {
		if err := h.sessionService.End(c.Request.Context(), token); err != nil {
			h.logger.ErrorWithError(err, "failed to end session")
		}
	}

	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

// Dashboard serves the authenticated user and their device list
func (h *AuthController) Dashboard(c *gin.Context) {
	userID, err := middleware.GetUserFromGinContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	userName, _ := middleware.GetUserNameFromGinContext(c)

	deviceList, err := h.deviceService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorWithError(err, "failed to list devices")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": gin.H{
			"id":   userID.Hex(),
			"name": userName,
		},
		"devices": deviceList,
	})
}

// RegisterRoutes registers the browser routes with Gin
func (h *AuthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Index)
	router.GET("/register", h.RegisterPage)
	router.POST("/register", h.Register)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)

	// Protected routes
	router.GET("/logout", h.sessionMiddleware.RequireSession(), h.Logout)
	router.GET("/dashboard", h.sessionMiddleware.RequireSession(), h.Dashboard)
}
