// Package ollama is the gateway to the local model host. It speaks the host's
// generate/chat/embeddings/tags/pull protocol over plain HTTP and translates
// every transport-level problem into the shared error taxonomy. The client
// holds no state across calls.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hiresense/hiresense/internal/apperr"
	"github.com/hiresense/hiresense/internal/logger"
)

const (
	defaultHost = "http://localhost:11434"

	// Latency classes. Embeddings are quick, extraction and chat calls can
	// take minutes on small hardware, and a model pull may download
	// gigabytes so it runs without a deadline.
	defaultEmbedTimeout = 30 * time.Second
	defaultChatTimeout  = 3 * time.Minute

	contentType   = "application/json"
	maxPreviewLen = 200
)

// Timeouts carries the per-call-class budgets. Zero values fall back to the
// defaults above.
type Timeouts struct {
	Generate time.Duration
	Chat     time.Duration
	Embed    time.Duration
}

// Client issues requests against one model host.
type Client struct {
	logger   *zap.Logger
	timeouts Timeouts
	options  *ModelOptions

	Host       string
	HTTPClient *http.Client
}

// New creates a gateway client for the given host. An empty host selects the
// conventional local address.
func New(host string, log *zap.Logger, timeouts Timeouts) *Client {
	if host == "" {
		host = defaultHost
	}

	if timeouts.Generate <= 0 {
		timeouts.Generate = defaultChatTimeout
	}
	if timeouts.Chat <= 0 {
		timeouts.Chat = defaultChatTimeout
	}
	if timeouts.Embed <= 0 {
		timeouts.Embed = defaultEmbedTimeout
	}

	return &Client{
		logger:   log,
		timeouts: timeouts,
		Host:     host,
		// Deadlines are applied per call class via context, not here.
		HTTPClient: &http.Client{},
	}
}

// SetOptions attaches tuning options forwarded on every model call.
func (c *Client) SetOptions(opts *ModelOptions) {
	c.options = opts
}

// Generate issues a single-prompt completion and returns the raw response
// text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	req := generateRequest{Model: model, Prompt: prompt, Stream: false, Options: c.options}

	c.logger.Debug("model generate request",
		zap.String("model", model),
		zap.String("prompt_preview", logger.Truncate(prompt, maxPreviewLen)),
	)

	var resp generateResponse
	if err := c.postJSON(ctx, "/api/generate", c.timeouts.Generate, req, &resp); err != nil {
		return "", err
	}

	c.logger.Debug("model generate response",
		zap.String("model", model),
		zap.String("response_preview", logger.Truncate(resp.Response, maxPreviewLen)),
	)

	return resp.Response, nil
}

// Chat issues a non-streaming chat call and returns the message content.
// format may be "json" to ask the host for structured output.
func (c *Client) Chat(ctx context.Context, model string, messages []Message, format string) (string, error) {
	req := chatRequest{Model: model, Messages: messages, Format: format, Stream: false, Options: c.options}

	var resp chatResponse
	if err := c.postJSON(ctx, "/api/chat", c.timeouts.Chat, req, &resp); err != nil {
		return "", err
	}

	c.logger.Debug("model chat response",
		zap.String("model", model),
		zap.String("content_preview", logger.Truncate(resp.Message.Content, maxPreviewLen)),
	)

	return resp.Message.Content, nil
}

// ChatStream issues a streaming chat call, consuming line-delimited chunks
// and keeping only the last well-formed one. The host's protocol promises the
// final chunk carries the complete aggregated message; that promise is
// validated via the done flag instead of assumed.
func (c *Client) ChatStream(ctx context.Context, model string, messages []Message, format string) (string, error) {
	req := chatRequest{Model: model, Messages: messages, Format: format, Stream: true, Options: c.options}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Chat)
	defer cancel()

	resp, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var (
		final    chatResponse
		anyChunk bool
	)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk chatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Intermediate garbage is tolerated; only the final chunk
			// matters.
			continue
		}
		final = chunk
		anyChunk = true
	}
	if err := scanner.Err(); err != nil {
		return "", apperr.Transport("streaming response from model host interrupted", err)
	}

	if !anyChunk {
		return "", apperr.MalformedOutput("model host stream contained no decodable chunks", nil)
	}
	if !final.Done {
		return "", apperr.MalformedOutput("model host stream ended before the final chunk", nil)
	}

	c.logger.Debug("model chat stream response",
		zap.String("model", model),
		zap.String("content_preview", logger.Truncate(final.Message.Content, maxPreviewLen)),
	)

	return final.Message.Content, nil
}

// EmbedOne returns the embedding vector for a single text.
func (c *Client) EmbedOne(ctx context.Context, model, text string) ([]float64, error) {
	req := embedSingleRequest{Model: model, Prompt: text, Options: c.options}

	var resp embedSingleResponse
	if err := c.postJSON(ctx, "/api/embeddings", c.timeouts.Embed, req, &resp); err != nil {
		return nil, err
	}

	return resp.Embedding, nil
}

// EmbedBatch returns one vector per input text, in input order.
func (c *Client) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float64, error) {
	req := embedBatchRequest{Model: model, Input: texts, Options: c.options}

	var resp embedBatchResponse
	if err := c.postJSON(ctx, "/api/embed", c.timeouts.Embed, req, &resp); err != nil {
		return nil, err
	}

	return resp.Embeddings, nil
}

// ListModels returns the models installed on the host.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Embed)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+"/api/tags", nil)
	if err != nil {
		return nil, apperr.Transport("building model list request", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list listModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, apperr.MalformedOutput("cannot decode model list", err)
	}

	return list.Models, nil
}

// PullModel asks the host to download a model and blocks until the download
// stream completes. The stream content is drained and discarded; only
// completion matters. No deadline: a pull may move gigabytes.
func (c *Client) PullModel(ctx context.Context, name string) error {
	resp, err := c.post(ctx, "/api/pull", pullRequest{Name: name, Stream: true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return apperr.Transport(fmt.Sprintf("pull stream for model %q interrupted", name), err)
	}

	return nil
}

// postJSON posts the payload and decodes the full response body into target,
// applying the given timeout.
func (c *Client) postJSON(ctx context.Context, path string, timeout time.Duration, payload, target any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return apperr.MalformedOutput("cannot decode model host response", err)
	}

	return nil
}

// post issues the request and verifies the status. The caller owns the body.
func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request for %s: %w", path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Transport(fmt.Sprintf("building request for %s", path), err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.logger.Debug("model host request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, apperr.Transport("model host unreachable", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, apperr.Transport(fmt.Sprintf("model host returned bad status: %s", resp.Status), nil)
	}

	return resp, nil
}
