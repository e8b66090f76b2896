package tasks

import (
	"context"
	"fmt"

	"github.com/hiresense/hiresense/internal/apperr"
)

// EmbedOne returns the embedding vector for one text. Input validation is the
// caller's job; an empty string is forwarded to the model unchanged.
func (r *Runner) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vector, err := r.gateway.EmbedOne(ctx, r.models.Embedding, text)
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	return vector, nil
}

// EmbedMany embeds a batch of texts in one call. The vector at index i
// corresponds to the input at index i; a count mismatch from the host is
// malformed output, not a silently truncated result.
func (r *Runner) EmbedMany(ctx context.Context, texts []string) ([][]float64, error) {
	vectors, err := r.gateway.EmbedBatch(ctx, r.models.Embedding, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding batch: %w", err)
	}

	if len(vectors) != len(texts) {
		return nil, apperr.MalformedOutput(
			fmt.Sprintf("expected %d embedding vectors, host returned %d", len(texts), len(vectors)), nil)
	}

	return vectors, nil
}
