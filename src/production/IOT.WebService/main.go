package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	container "gitlab.com/homesense1/iot.home_server/src/production/IOT.Container"
	publisher "gitlab.com/homesense1/iot.home_server/src/production/IOT.Publisher"
	implementation "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Implementation"
	"gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/controllers"
	authService "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/auth"
	deviceService "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/devices"
	sessionService "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/session"
	sessionMiddleware "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/middleware"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting Web Service")

	// Initialize database and indexes
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ctr.InitializeDatabase(ctx); err != nil {
		logger.FatalWithError(err, "Failed to initialize database")
	}

	db, err := ctr.GetDatabase(ctx)
	if err != nil {
		logger.FatalWithError(err, "Failed to get database")
	}

	// Create repositories
	userRepo := implementation.NewMongoUserRepository(db)
	deviceRepo := implementation.NewMongoDeviceRepository(db)
	eventRepo := implementation.NewMongoEventRepository(db)
	sessionRepo := implementation.NewMongoSessionRepository(db)

	// Get configuration
	config := ctr.GetConfig()

	// Optional MQTT event fan-out
	var eventPublisher deviceService.EventPublisher
	if config.MQTT.Enabled {
		pub := publisher.New(config, logger)
		if err := pub.Start(); err != nil {
			// the service is fully functional without the broker
			logger.ErrorWithError(err, "Failed to connect event publisher, continuing without MQTT")
		} else {
			eventPublisher = pub
			ctr.AddCleanupFunc(func() error {
				pub.Stop()
				return nil
			})
		}
	}

	// Initialize services
	devices := deviceService.NewDeviceService(deviceRepo)
	events := deviceService.NewEventService(eventRepo, eventPublisher, logger)
	state := deviceService.NewStateService(devices, events)
	auth := authService.NewAuthService(userRepo, devices)
	sessions := sessionService.NewService(sessionRepo, config.Session.Duration)

	// Create session middleware
	middlewareConfig := sessionMiddleware.Config{
		CookieName: config.Session.CookieName,
		LoginPath:  "/login",
	}
	sessionGate := sessionMiddleware.NewSessionMiddleware(sessions, middlewareConfig)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configure CORS from config
	corsConfig := cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// Create controllers and register routes
	cookie := controllers.CookieConfig{
		Name:   config.Session.CookieName,
		MaxAge: int(config.Session.Duration.Seconds()),
		Secure: config.Session.SecureCookie,
	}
	authController := controllers.NewAuthController(auth, sessions, devices, sessionGate, cookie, logger)
	stateController := controllers.NewStateController(state, sessionGate, logger)
	healthController := controllers.NewHealthController(ctr, logger)

	authController.RegisterRoutes(router)
	stateController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	// Get port from configuration
	port := config.Server.Port

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("Web service running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
