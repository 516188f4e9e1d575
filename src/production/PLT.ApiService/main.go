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

	"gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/controllers"
	container "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Container"
	implementation "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Repository/Implementation"

	authService "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/auth"
	jwt "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/jwt"
	rbac "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/rbac"
	sessionService "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/sessions"
	authMiddleware "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/middleware"
	api_models "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models/api"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting API Service")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect to MongoDB
	db, err := ctr.GetDatabase(ctx)
	if err != nil {
		logger.FatalWithError(err, "Failed to connect to MongoDB")
	}

	// Get configuration
	config := ctr.GetConfig()

	// Create repositories
	userRepo := implementation.NewMongoUserRepository(db, config.Mongo.UsersCollection, config.Mongo.SessionsCollection)
	sessionRepo := implementation.NewMongoSessionRepository(db, config.Mongo.SessionsCollection)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.FatalWithError(err, "Failed to create indexes")
	}

	// Initialize JWT service for token issuance and validation
	jwtConfig := api_models.Config{
		SecretKey:            config.Auth.AppSecret,
		Issuer:               config.Auth.Issuer,
		UserTokenDuration:    config.Auth.UserTokenDuration,
		SessionTokenDuration: config.Auth.SessionTokenDuration,
	}
	jwtService := jwt.NewService(jwtConfig)

	// Initialize RBAC service
	rbacService := rbac.NewService()

	// Create auth middleware
	authMiddlewareInstance := authMiddleware.NewAuthMiddleware(jwtService, rbacService, authMiddleware.DefaultConfig())

	// Initialize services
	authServiceInstance := authService.NewAuthService(userRepo, jwtService, rbacService, config.Auth.BcryptCost)
	userServiceInstance := authService.NewUserService(userRepo, rbacService)
	sessionServiceInstance := sessionService.NewSessionService(userRepo, sessionRepo, jwtService)

	healthChecker, err := ctr.GetHealthChecker(ctx)
	if err != nil {
		logger.FatalWithError(err, "Failed to create health checker")
	}

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
	authController := controllers.NewAuthController(authServiceInstance, userServiceInstance, authMiddlewareInstance, config.Auth.UserTokenDuration)
	sessionController := controllers.NewSessionController(sessionServiceInstance, authMiddlewareInstance)
	healthController := controllers.NewHealthController(healthChecker, logger)

	authController.RegisterRoutes(router)
	sessionController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	// Create HTTP server with timeouts
	port := config.Server.Port
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

	logger.Info("API service running... press Ctrl+C to stop")

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
