package middleware

import (
	"time" // Request duration

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RequestLoggerMiddleware logs every request with method, path, status and
// duration once the handler chain has finished
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Start time of the request
		c.Next()            // Proceed to the next handler
		// Log the completed request
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,           // HTTP method
			"path":     c.Request.URL.Path,         // Request path
			"status":   c.Writer.Status(),          // Response status code
			"duration": time.Since(start).String(), // Handling duration
			"client":   c.ClientIP(),               // Client address
		}).Info("Request handled")
	}
}
