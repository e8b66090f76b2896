package ollama

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Message is a single chat turn sent to the model host.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelInfo describes one model installed on the host.
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// ModelOptions are the tuning knobs forwarded verbatim to the host on every
// generate/chat/embedding call. All fields are optional.
type ModelOptions struct {
	Temperature *float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	NumCtx      int      `json:"num_ctx,omitempty" mapstructure:"num_ctx"`
	NumPredict  int      `json:"num_predict,omitempty" mapstructure:"num_predict"`
}

// DecodeOptions converts the free-form options block of the configuration
// into typed model options. Unknown keys are rejected so typos in the config
// do not silently become no-ops.
func DecodeOptions(raw map[string]any) (*ModelOptions, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var opts ModelOptions
	cfg := &mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding model options: %w", err)
	}

	return &opts, nil
}

type generateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options *ModelOptions `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Format   string        `json:"format,omitempty"`
	Stream   bool          `json:"stream"`
	Options  *ModelOptions `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

type embedSingleRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Options *ModelOptions `json:"options,omitempty"`
}

type embedSingleResponse struct {
	Embedding []float64 `json:"embedding"`
}

type embedBatchRequest struct {
	Model   string        `json:"model"`
	Input   []string      `json:"input"`
	Options *ModelOptions `json:"options,omitempty"`
}

type embedBatchResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

type listModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}
