package container

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/health"
	config "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Config"
	logger "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Logger"
)

// Container manages dependencies and their lifecycle
type Container struct {
	config *config.Config
	logger *logger.Logger
	client *mongo.Client

	healthChecker *health.HealthChecker

	// Mutex for thread-safe access
	mu sync.Mutex
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

// GetMongoClient returns the MongoDB client, connecting on first use
func (c *Container) GetMongoClient(ctx context.Context) (*mongo.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, c.config.Mongo.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(c.config.Mongo.URI).
		SetTimeout(c.config.Mongo.OperationTimeout)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("unable to ping MongoDB: %w", err)
	}

	c.client = client
	return c.client, nil
}

// GetDatabase returns the configured application database
func (c *Container) GetDatabase(ctx context.Context) (*mongo.Database, error) {
	client, err := c.GetMongoClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.config.Mongo.Database), nil
}

// GetHealthChecker returns the health checker
func (c *Container) GetHealthChecker(ctx context.Context) (*health.HealthChecker, error) {
	client, err := c.GetMongoClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get mongo client for health checker: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.healthChecker == nil {
		c.healthChecker = health.NewHealthChecker(client)
	}

	return c.healthChecker, nil
}

// Shutdown gracefully shuts down the container and all its dependencies
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		if err := c.client.Disconnect(ctx); err != nil {
			c.logger.ErrorWithError(err, "Error disconnecting MongoDB client")
		}
		c.client = nil
	}

	c.logger.Info("Container shutdown complete")
	return nil
}
