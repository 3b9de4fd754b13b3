package container

import (
	"context"
	"fmt"
	"sync"

	config "gitlab.com/homesense1/iot.home_server/src/production/IOT.Config"
	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"
	implementation "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Implementation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Container manages dependencies and their lifecycle
type Container struct {
	config *config.Config
	logger *logger.Logger
	client *mongo.Client

	// Mutex for thread-safe access
	mu sync.Mutex

	// Cleanup functions
	cleanupFuncs []func() error
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	log := logger.NewLogger(&cfg.Logging)

	return &Container{
		config: cfg,
		logger: log,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.logger
}

// GetClient returns the MongoDB client, connecting on first use
func (c *Container) GetClient(ctx context.Context) (*mongo.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		connectCtx, cancel := context.WithTimeout(ctx, c.config.Mongo.ConnectTimeout)
		defer cancel()

		clientOptions := options.Client().ApplyURI(c.config.Mongo.URI)
		client, err := mongo.Connect(connectCtx, clientOptions)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to MongoDB: %w", err)
		}

		// Test the connection
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			return nil, fmt.Errorf("unable to ping MongoDB: %w", err)
		}

		c.client = client
		c.cleanupFuncs = append(c.cleanupFuncs, func() error {
			return client.Disconnect(context.Background())
		})
	}

	return c.client, nil
}

// GetDatabase returns the application database
func (c *Container) GetDatabase(ctx context.Context) (*mongo.Database, error) {
	client, err := c.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.config.Mongo.Database), nil
}

// InitializeDatabase connects and creates the indexes the repositories rely on
func (c *Container) InitializeDatabase(ctx context.Context) error {
	db, err := c.GetDatabase(ctx)
	if err != nil {
		return err
	}

	if err := implementation.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	c.logger.Info("Database initialized successfully")
	return nil
}

// Ping checks storage connectivity, used by the health endpoint
func (c *Container) Ping(ctx context.Context) error {
	client, err := c.GetClient(ctx)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.config.Mongo.PingTimeout)
	defer cancel()

	return client.Ping(pingCtx, readpref.Primary())
}

// AddCleanupFunc adds a cleanup function
func (c *Container) AddCleanupFunc(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}

// Shutdown gracefully shuts down the container and all its dependencies
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	c.mu.Lock()
	defer c.mu.Unlock()

	// Execute cleanup functions in reverse order
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](); err != nil {
			c.logger.ErrorWithError(err, "Error during cleanup")
		}
	}
	c.cleanupFuncs = nil

	c.logger.Info("Container shutdown complete")
	return nil
}
