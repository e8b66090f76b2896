package tasks

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/hiresense/hiresense/internal/apperr"
)

func TestEmbedOne(t *testing.T) {
	stub := &stubGateway{
		embedOneFn: func(text string) ([]float64, error) {
			if text != "posting text" {
				t.Errorf("unexpected input %q", text)
			}
			return []float64{0.1, 0.2}, nil
		},
	}

	runner := New(stub, Models{Embedding: "all-minilm"}, zap.NewNop())
	vector, err := runner.EmbedOne(context.Background(), "posting text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(vector, []float64{0.1, 0.2}) {
		t.Fatalf("unexpected vector: %v", vector)
	}
}

func TestEmbedManyPreservesOrder(t *testing.T) {
	stub := &stubGateway{
		embedBatchFn: func(texts []string) ([][]float64, error) {
			out := make([][]float64, len(texts))
			for i := range texts {
				out[i] = []float64{float64(i)}
			}
			return out, nil
		},
	}

	runner := New(stub, Models{Embedding: "all-minilm"}, zap.NewNop())
	vectors, err := runner.EmbedMany(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range vectors {
		if v[0] != float64(i) {
			t.Fatalf("vector %d misaligned: %v", i, v)
		}
	}
}

func TestEmbedManyCountMismatchIsMalformed(t *testing.T) {
	stub := &stubGateway{
		embedBatchFn: func(texts []string) ([][]float64, error) {
			return [][]float64{{1}}, nil
		},
	}

	runner := New(stub, Models{Embedding: "all-minilm"}, zap.NewNop())
	_, err := runner.EmbedMany(context.Background(), []string{"a", "b"})
	if !apperr.IsKind(err, apperr.KindMalformedOutput) {
		t.Fatalf("expected malformed output on count mismatch, got %v", err)
	}
}
