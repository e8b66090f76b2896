package tasks

import (
	"context"
	"strings"

	"github.com/hiresense/hiresense/internal/apperr"
	"github.com/hiresense/hiresense/internal/ollama"
)

// AnalyzeMatch compares a parsed resume against a posting in one long-context
// chat call and returns the narrative report as-is. The report's three
// sections are a prompt-level contract; nothing is re-parsed here. An empty
// reply is a failure: an analysis must always say something.
func (r *Runner) AnalyzeMatch(ctx context.Context, candidate, posting string) (string, error) {
	messages := []ollama.Message{
		{Role: "user", Content: buildMatchPrompt(matchAnalysisPrompt, candidate, posting)},
	}

	report, err := r.gateway.Chat(ctx, r.models.Extraction, messages, "")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(report) == "" {
		return "", apperr.MalformedOutput("model produced no usable content", nil)
	}

	return report, nil
}
