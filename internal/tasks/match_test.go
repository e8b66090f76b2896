package tasks

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hiresense/hiresense/internal/apperr"
	"github.com/hiresense/hiresense/internal/ollama"
)

const sampleReport = `Strengths:
- Solid Go background

Gaps:
- No Kubernetes experience

Summary:
A reasonable fit overall.`

func TestAnalyzeMatchPassesReportThrough(t *testing.T) {
	stub := &stubGateway{
		chatFn: func(messages []ollama.Message, format string) (string, error) {
			if format != "" {
				t.Errorf("match analysis must not request structured output, got %q", format)
			}
			return sampleReport, nil
		},
	}

	runner := New(stub, Models{Extraction: "gemma:2b"}, zap.NewNop())
	report, err := runner.AnalyzeMatch(context.Background(), "cv text", "posting text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report != sampleReport {
		t.Fatalf("report must be returned verbatim, got %q", report)
	}

	prompts := stub.recorded()
	if len(prompts) != 1 {
		t.Fatalf("expected a single chat call, got %d", len(prompts))
	}
	if !strings.Contains(prompts[0], "cv text") || !strings.Contains(prompts[0], "posting text") {
		t.Fatalf("prompt must carry both documents: %q", prompts[0])
	}
}

func TestAnalyzeMatchEmptyReportIsMalformed(t *testing.T) {
	stub := &stubGateway{
		chatFn: func(_ []ollama.Message, _ string) (string, error) {
			return " \n ", nil
		},
	}

	runner := New(stub, Models{Extraction: "gemma:2b"}, zap.NewNop())
	_, err := runner.AnalyzeMatch(context.Background(), "cv", "posting")
	if !apperr.IsKind(err, apperr.KindMalformedOutput) {
		t.Fatalf("empty report must be malformed output, got %v", err)
	}
}
