package ollama

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// EnsureModel checks that a model is installed on the host and triggers a
// blocking pull when it is not. Matching is by name prefix so configured
// names without a tag suffix still match installed "name:tag" entries.
//
// Callers run this once at startup; failures are meant to be logged, not to
// prevent the process from serving.
func (c *Client) EnsureModel(ctx context.Context, name string) error {
	models, err := c.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("listing models on host: %w", err)
	}

	for _, m := range models {
		if strings.HasPrefix(m.Name, name) {
			c.logger.Debug("model already available", zap.String("model", m.Name))
			return nil
		}
	}

	c.logger.Info("model not found on host, pulling",
		zap.String("model", name),
		zap.String("host", c.Host),
	)

	if err := c.PullModel(ctx, name); err != nil {
		return fmt.Errorf("pulling model %q: %w", name, err)
	}

	c.logger.Info("model pulled", zap.String("model", name))
	return nil
}
