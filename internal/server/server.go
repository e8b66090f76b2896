package server

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

// New builds the HTTP server with all routes registered. The caller owns
// Spin/Shutdown.
func New(addr string, h *Handler, logger *zap.Logger) *server.Hertz {
	srv := server.Default(server.WithHostPorts(addr))

	srv.Use(RequestLogger(logger))

	srv.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "OK"})
	})

	api := srv.Group("/api/v1")
	{
		api.POST("/parsed-resumes", h.ParseResume)
		api.POST("/posting-embeddings", h.EmbedPosting)
		api.POST("/posting-embeddings/batch", h.EmbedPostingBatch)
		api.POST("/match-analyses", h.AnalyzeMatch)
	}

	return srv
}
