package health

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthChecker provides health check functionality
type HealthChecker struct {
	client *mongo.Client
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(client *mongo.Client) *HealthChecker {
	return &HealthChecker{client: client}
}

// PingMongo checks if the MongoDB connection is healthy
func (h *HealthChecker) PingMongo(ctx context.Context) error {
	if h.client == nil {
		return fmt.Errorf("mongo client is nil")
	}
	return h.client.Ping(ctx, readpref.Primary())
}

// GetHealthStatus returns the current health status
func (h *HealthChecker) GetHealthStatus(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    make(map[string]interface{}),
	}

	mongoStatus := "ok"
	if err := h.PingMongo(ctx); err != nil {
		mongoStatus = "error"
		status["checks"].(map[string]interface{})["mongo"] = map[string]interface{}{
			"status": mongoStatus,
			"error":  err.Error(),
		}
		status["status"] = "unhealthy"
		return status
	}

	status["checks"].(map[string]interface{})["mongo"] = map[string]interface{}{
		"status": mongoStatus,
	}
	status["status"] = "healthy"
	return status
}
