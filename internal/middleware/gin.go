package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/internal/metrics"
	"github.com/mroshb/red_social/pkg/errors"
	"github.com/mroshb/red_social/pkg/logger"
	"github.com/mroshb/red_social/pkg/result"
	"github.com/mroshb/red_social/pkg/utils"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or mints one, and echoes it
// back on the reply.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 64 {
			id = utils.NewRequestID()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// RateLimit applies the user and IP windows. Place it after JWTAuth so the
// user id is known.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.CheckIPLimit(c.ClientIP()) {
			result.FailWithMessage(c, errors.ErrCodeRateLimitExceeded, "too many requests from this address")
			return
		}
		if userID, _ := CurrentUser(c); userID != 0 && !rl.CheckUserLimit(userID) {
			result.FailWithMessage(c, errors.ErrCodeRateLimitExceeded, "too many requests, try again later")
			return
		}
		c.Next()
	}
}

// Logger writes one structured line per request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(ctxRequestID),
		}
		if userID, _ := CurrentUser(c); userID != 0 {
			fields = append(fields, "user_id", userID)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// Metrics records request counts and latency per route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Recovery turns panics into a 500 envelope and logs them
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		result.FailWithMessage(c, errors.ErrCodeInternalError, "internal error")
	})
}
