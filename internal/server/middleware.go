package server

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(logger *zap.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Response.Header.Set("X-Request-ID", id)

		start := time.Now()
		c.Next(ctx)

		logger.Info("request handled",
			zap.String(requestIDKey, id),
			zap.String("method", string(c.Method())),
			zap.String("path", string(c.Path())),
			zap.Int("status", c.Response.StatusCode()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func requestID(c *app.RequestContext) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
