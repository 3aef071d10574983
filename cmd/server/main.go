package main

import (
	"context"                            // context package is needed for Redis operations
	"log"                                // log package is needed for logging
	"miner_registry/internal/api"        // Custom package for API handlers
	"miner_registry/internal/config"     // Custom package for configuration
	"miner_registry/internal/db"         // Custom package for database access
	"miner_registry/internal/ledger"     // Custom package for the ledger store
	"miner_registry/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the ledger database
	gormDB, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	store := ledger.NewStore(gormDB) // Ledger store over the shared DB handle

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Request logging and Redis client injection for write-path invalidation
	r.Use(middleware.RequestLoggerMiddleware(), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})

	// Registry routes
	minerGroup := r.Group("/miners")
	minerGroup.POST("", api.RegisterMinerHandler(store))                           // Register miner endpoint
	minerGroup.GET("", api.ListMinersHandler(store, redisClient))                  // List miners endpoint
	minerGroup.PATCH("/:id/enabled", api.SetEnabledHandler(store))                 // Enable/disable endpoint
	minerGroup.POST("/:id/adjust", api.AdjustHandler(store))                       // Balance adjustment endpoint
	minerGroup.GET("/:id/adjustments", api.AdjustmentHistoryHandler(store, redisClient)) // Adjustment history endpoint

	// Ledger-wide routes
	r.GET("/miner", api.GetMinerHandler(store, redisClient))              // Lookup by pubkey endpoint
	r.GET("/adjustments", api.ListAdjustmentsHandler(store, redisClient)) // Filtered adjustment listing endpoint
	r.GET("/timestamp", api.TimestampHandler())                           // Server time endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
