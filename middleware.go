package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	correlationIDKey    = "correlationID"
)

// CorrelationIDMiddleware keeps the caller's correlation id or assigns a new one
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(correlationIDKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Next()
	}
}

// GetCorrelationID retrieves the correlation ID from the Gin context
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(correlationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}

// requestLogger returns the global logger tagged with the request's correlation id
func requestLogger(c *gin.Context) *zap.Logger {
	if id := GetCorrelationID(c); id != "" {
		return Log.With(zap.String("correlation_id", id))
	}
	return Log
}

// RequestLoggingMiddleware logs every request once it completes and feeds the
// HTTP metrics. Routes are labelled by pattern, not raw path.
func RequestLoggingMiddleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		if metrics != nil {
			metrics.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			metrics.requestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("client_ip", c.ClientIP()),
		}
		log := requestLogger(c)
		switch {
		case status >= 500:
			log.Error("Request failed", append(fields, zap.String("errors", c.Errors.String()))...)
		case status >= 400:
			log.Warn("Request rejected", fields...)
		default:
			log.Debug("Request completed", fields...)
		}
	}
}
