// Package tasks composes model calls into the extraction and analysis
// operations the service exposes. Each task is stateless: it builds prompts,
// delegates to the gateway and turns raw replies into typed results.
package tasks

import (
	"context"

	"go.uber.org/zap"

	"github.com/hiresense/hiresense/internal/ollama"
)

// ModelGateway is what tasks need from the model host client.
type ModelGateway interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Chat(ctx context.Context, model string, messages []ollama.Message, format string) (string, error)
	ChatStream(ctx context.Context, model string, messages []ollama.Message, format string) (string, error)
	EmbedOne(ctx context.Context, model, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, model string, texts []string) ([][]float64, error)
}

// Models selects which installed model serves each call class. Injected at
// construction so the choice is configurable and testable.
type Models struct {
	Extraction string
	Embedding  string
}

// Runner executes tasks against one gateway.
type Runner struct {
	gateway ModelGateway
	models  Models
	logger  *zap.Logger
}

func New(gateway ModelGateway, models Models, logger *zap.Logger) *Runner {
	return &Runner{
		gateway: gateway,
		models:  models,
		logger:  logger,
	}
}
