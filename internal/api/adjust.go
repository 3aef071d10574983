package api

import (
	"context"                        // Context for Redis operations
	"miner_registry/internal/domain" // Importing domain models
	"miner_registry/internal/ledger" // Ledger error kinds
	"miner_registry/internal/utils"  // Utility functions
	"net/http"                       // HTTP status codes
	"strconv"                        // String conversion
	"time"                           // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// AdjustRequest represents a balance adjustment request
type AdjustRequest struct {
	Delta  *int64 `json:"delta" binding:"required"` // Signed amount, pointer so zero still binds
	Reason string `json:"reason"`                   // Optional origin of the adjustment
}

// AdjustHandler applies a credit or debit to a miner's balance.
// An over-debit is rejected with a conflict and the balance is unchanged.
func AdjustHandler(reg Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := minerIDParam(c) // Miner id from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid miner id"})
			return
		}
		var req AdjustRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Apply the adjustment atomically
		balance, err := reg.Adjust(c.Request.Context(), id, *req.Delta, req.Reason)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		// Log the applied adjustment
		logrus.WithFields(logrus.Fields{
			"miner_id":  id,                              // Miner identifier
			"delta":     *req.Delta,                      // Applied delta
			"balance":   balance,                         // Balance after
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Adjustment applied")
		// Invalidate miner and adjustment history caches
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background() // Context for Redis operations
			invalidateMinerCache(ctx, rdb, reg, id)
			invalidateListCache(ctx, rdb)
			historyPrefix := "adjustments:miner:" + strconv.Itoa(int(id)) // History prefix for the miner
			// Invalidate paginated history cache (simple version: delete first 5 pages)
			for i := 1; i <= 5; i++ {
				// Delete cache entries
				_ = utils.DeleteCache(ctx, rdb, historyPrefix+":page:"+strconv.Itoa(i)+":size:20")
			}
		}
		// Return the new balance
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	}
}

// AdjustmentHistoryHandler returns a miner's adjustment history, newest first
func AdjustmentHistoryHandler(reg Registry, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := minerIDParam(c) // Miner id from the path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid miner id"})
			return
		}
		page, pageSize := paginationParams(c) // Pagination from query params
		offset := (page - 1) * pageSize       // Calculate offset
		// Redis cache key
		cacheKey := "adjustments:miner:" + strconv.Itoa(int(id)) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := context.Background() // Context for Redis operations
		var cached struct {
			Adjustments []domain.Adjustment `json:"adjustments"` // List of adjustments
			Page        int                 `json:"page"`        // Current page
			PageSize    int                 `json:"page_size"`   // Page size
			Total       int64               `json:"total"`       // Total adjustments
			TotalPages  int                 `json:"total_pages"` // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"adjustments": cached.Adjustments, // Cached adjustments
				"page":        cached.Page,        // Current page
				"page_size":   cached.PageSize,    // Page size
				"total":       cached.Total,       // Total adjustments
				"total_pages": cached.TotalPages,  // Total pages
				"cached":      true,
			})
			return
		}
		// Fetch the page from the store
		adjustments, total, err := reg.Adjustments(c.Request.Context(), id, offset, pageSize)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"adjustments": adjustments, // List of adjustments
			"page":        page,        // Current page
			"page_size":   pageSize,    // Page size
			"total":       total,       // Total adjustments
			"total_pages": totalPages,  // Total pages
			"cached":      false,       // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return adjustment history
	}
}

// ListAdjustmentsHandler returns all adjustments, with optional filtering by
// miner, type, or date
func ListAdjustmentsHandler(reg Registry, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build cache key from all query params
		cacheKey := "adjustments:all"
		for _, k := range []string{"miner_id", "type", "from", "to", "page", "page_size"} {
			cacheKey += ":" + k + "=" + c.DefaultQuery(k, "") // Append key-value pair
		}
		var cached struct {
			Adjustments []domain.Adjustment `json:"adjustments"` // List of adjustments
			Page        int                 `json:"page"`        // Current page
			PageSize    int                 `json:"page_size"`   // Page size
			Total       int64               `json:"total"`       // Total number of adjustments
			TotalPages  int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"adjustments": cached.Adjustments, // List of adjustments
				"page":        cached.Page,        // Current page
				"page_size":   cached.PageSize,    // Page size
				"total":       cached.Total,       // Total number of adjustments
				"total_pages": cached.TotalPages,  // Total pages
				"cached":      true,               // Indicate response is from cache
			})
			return
		}
		page, pageSize := paginationParams(c) // Pagination from query params
		offset := (page - 1) * pageSize       // Calculate offset for pagination
		filter := ledger.AdjustmentFilter{
			MinerID: c.Query("miner_id"), // Filter by miner id
			Type:    c.Query("type"),     // Filter by adjustment type
			From:    c.Query("from"),     // Filter by start date
			To:      c.Query("to"),       // Filter by end date
		}
		// Fetch filtered adjustments from the store
		adjustments, total, err := reg.ListAdjustments(c.Request.Context(), filter, offset, pageSize)
		if err != nil {
			// If error occurs, return the mapped status
			c.JSON(statusForError(err), gin.H{"error": "Failed to fetch adjustments"})
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"adjustments": adjustments, // List of adjustments
			"page":        page,        // Current page
			"page_size":   pageSize,    // Page size
			"total":       total,       // Total number of adjustments
			"total_pages": totalPages,  // Total pages
			"cached":      false,       // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// TimestampHandler returns the server's unix time, used by clients to
// sanity-check clock skew
func TimestampHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"timestamp": time.Now().Unix()})
	}
}
