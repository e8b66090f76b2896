package tasks

import (
	"context"
	"sync"

	"github.com/hiresense/hiresense/internal/ollama"
)

// stubGateway answers model calls from canned functions and records prompts.
type stubGateway struct {
	mu      sync.Mutex
	prompts []string

	generateFn   func(prompt string) (string, error)
	chatFn       func(messages []ollama.Message, format string) (string, error)
	chatStreamFn func(messages []ollama.Message, format string) (string, error)
	embedOneFn   func(text string) ([]float64, error)
	embedBatchFn func(texts []string) ([][]float64, error)
}

func (s *stubGateway) record(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
}

func (s *stubGateway) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

func (s *stubGateway) Generate(_ context.Context, _ string, prompt string) (string, error) {
	s.record(prompt)
	return s.generateFn(prompt)
}

func (s *stubGateway) Chat(_ context.Context, _ string, messages []ollama.Message, format string) (string, error) {
	if len(messages) > 0 {
		s.record(messages[0].Content)
	}
	return s.chatFn(messages, format)
}

func (s *stubGateway) ChatStream(_ context.Context, _ string, messages []ollama.Message, format string) (string, error) {
	if len(messages) > 0 {
		s.record(messages[0].Content)
	}
	return s.chatStreamFn(messages, format)
}

func (s *stubGateway) EmbedOne(_ context.Context, _ string, text string) ([]float64, error) {
	return s.embedOneFn(text)
}

func (s *stubGateway) EmbedBatch(_ context.Context, _ string, texts []string) ([][]float64, error) {
	return s.embedBatchFn(texts)
}
