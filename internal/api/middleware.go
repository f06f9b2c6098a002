package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// requestID assigns a UUID to every request, echoing a caller-supplied one
// if present, so logs across the facade and its collaborators can be
// correlated (spec.md's ambient observability expectations).
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs one structured line per request; never logs request or
// response bodies, only metadata (spec.md §7 "never emit a stack trace").
func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observeRequest(route, fmt.Sprintf("%dxx", status/100), elapsed)

		logger.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		)
	}
}

// recoverJSON converts a panic in any handler into a bounded 500 JSON body
// instead of gin's default plain-text stack trace (spec.md §7 "never a
// stack trace").
func recoverJSON(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.Any("panic", r),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}()
		c.Next()
	}
}
