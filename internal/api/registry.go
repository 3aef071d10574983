package api

import (
	"context"                        // Context for Redis operations
	"miner_registry/internal/domain" // Importing domain models
	"miner_registry/internal/utils"  // Utility functions
	"net/http"                       // HTTP status codes
	"strconv"                        // String conversion
	"time"                           // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// RegisterRequest represents a miner registration request
type RegisterRequest struct {
	Pubkey string `json:"pubkey" binding:"required"` // Public key must be provided
}

// RegisterMinerHandler registers a new miner with a zero balance.
// Re-registering the same pubkey is rejected with a conflict.
func RegisterMinerHandler(reg Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Create the miner record
		miner, err := reg.Create(c.Request.Context(), req.Pubkey)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		// Invalidate the miner list cache
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			invalidateListCache(context.Background(), rdb)
		}
		// Return the new record
		c.JSON(http.StatusCreated, gin.H{"miner": miner})
	}
}

// GetMinerHandler returns the miner registered under the pubkey query param
func GetMinerHandler(reg Registry, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubkey := c.Query("pubkey") // Pubkey from the query string
		if pubkey == "" {
			// If missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing pubkey"})
			return
		}
		ctx := context.Background()                 // Context for Redis operations
		cacheKey := "miner:pubkey:" + pubkey        // Cache key for the miner
		var miner domain.Miner                      // Miner struct to hold data
		found, err := utils.GetCache(ctx, rdb, cacheKey, &miner) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"miner": miner, "cached": true})
			return
		}
		// If not in cache, fetch from the store
		m, err := reg.GetByPubkey(c.Request.Context(), pubkey)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, m, 60*time.Second) // Cache the miner for 60 seconds
		c.JSON(http.StatusOK, gin.H{"miner": m, "cached": false}) // Return miner info
	}
}

// ListMinersHandler returns a paginated listing of miners, optionally
// filtered to those enabled for reward distribution
func ListMinersHandler(reg Registry, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		enabledOnly := c.Query("enabled") == "true" // Filter flag
		page, pageSize := paginationParams(c)       // Pagination from query params
		ctx := context.Background()                 // Context for Redis operations
		// Create a cache key based on filter and pagination parameters
		cacheKey := "miners:enabled=" + strconv.FormatBool(enabledOnly) +
			":page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached struct {
			Miners     []domain.Miner `json:"miners"`      // List of miners
			Page       int            `json:"page"`        // Current page
			PageSize   int            `json:"page_size"`   // Page size
			Total      int64          `json:"total"`       // Total number of miners
			TotalPages int            `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"miners":      cached.Miners,     // List of miners
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of miners
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		// Fetch the page from the store
		miners, total, err := reg.List(c.Request.Context(), enabledOnly, offset, pageSize)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": "Failed to list miners"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		respData := gin.H{
			"miners":      miners,     // List of miners
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of miners
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// SetEnabledRequest represents an enable/disable request
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"` // Pointer so that false still binds
}

// SetEnabledHandler toggles a miner's participation in reward distribution.
// Setting the current value again succeeds with no effect.
func SetEnabledHandler(reg Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := minerIDParam(c) // Miner id from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid miner id"})
			return
		}
		var req SetEnabledRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Apply the toggle
		if err := reg.SetEnabled(c.Request.Context(), id, *req.Enabled); err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		// Invalidate miner and list caches
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background() // Context for Redis operations
			invalidateMinerCache(ctx, rdb, reg, id)
			invalidateListCache(ctx, rdb)
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Enabled flag updated"})
	}
}

// paginationParams reads page and page_size query params, defaulting to
// page 1 with 20 entries and capping the size at 100
func paginationParams(c *gin.Context) (int, int) {
	page := 1      // Default page
	pageSize := 20 // Default page size
	// If page exists in query
	if p := c.Query("page"); p != "" {
		// Convert page to integer
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// If page_size exists in query
	if ps := c.Query("page_size"); ps != "" {
		// Convert page_size to integer
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// minerIDParam parses the :id path param
func minerIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32) // Parse id as unsigned
	return uint(id), err
}

// invalidateMinerCache drops the cached record for a miner. The pubkey cache
// key requires a lookup by id first; a miss is logged and skipped.
func invalidateMinerCache(ctx context.Context, rdb *redis.Client, reg Registry, id uint) {
	miner, err := reg.GetByID(ctx, id)
	if err != nil {
		// Nothing cached to drop for an unknown miner
		logrus.WithFields(logrus.Fields{
			"miner_id": id,          // Miner identifier
			"error":    err.Error(), // Error message
		}).Warn("Skipping miner cache invalidation")
		return
	}
	_ = utils.DeleteCache(ctx, rdb, "miner:pubkey:"+miner.Pubkey) // Invalidate the miner cache
}

// invalidateListCache drops the paginated miner list caches
// (simple version: delete first 5 pages of both filter variants)
func invalidateListCache(ctx context.Context, rdb *redis.Client) {
	for _, enabled := range []string{"true", "false"} {
		for i := 1; i <= 5; i++ {
			// Delete cache entries for both filter variants
			_ = utils.DeleteCache(ctx, rdb, "miners:enabled="+enabled+":page="+strconv.Itoa(i)+":size=20")
		}
	}
}
