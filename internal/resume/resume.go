// Package resume turns a resume URL into plain text. It is deliberately dumb
// plumbing: download bytes, check they look like a PDF, extract the text.
// Everything downstream works on the text alone.
package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/hiresense/hiresense/internal/apperr"
)

const (
	pdfMagic = "%PDF"

	downloadTimeout = 30 * time.Second
	// Refuse to buffer arbitrarily large downloads.
	maxDownloadBytes = 32 << 20
)

// Parser downloads and extracts resumes.
type Parser struct {
	logger *zap.Logger

	HTTPClient *http.Client
}

func NewParser(logger *zap.Logger) *Parser {
	return &Parser{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: downloadTimeout,
		},
	}
}

// Parse fetches the document at url and returns its plain text.
func (p *Parser) Parse(ctx context.Context, url string) (string, error) {
	data, err := p.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if !bytes.HasPrefix(data, []byte(pdfMagic)) {
		return "", apperr.UnsupportedContent("only pdf files are supported")
	}

	return ExtractText(data)
}

func (p *Parser) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.InvalidRequest("given url is not valid")
	}

	p.logger.Debug("downloading resume", zap.String("url", url))

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, apperr.ContentCorrupt(fmt.Sprintf("URL is invalid or unreachable: %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.ContentCorrupt(fmt.Sprintf("URL is invalid or unreachable: %s", url), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, apperr.ContentCorrupt(fmt.Sprintf("URL is invalid or unreachable: %s", url), err)
	}

	return data, nil
}

// ExtractText pulls the plain text out of PDF bytes. A document that cannot
// be parsed, or parses to only whitespace, is unprocessable content.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.ContentCorrupt("file is corrupt or not a valid PDF", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", apperr.ContentCorrupt("file is corrupt or not a valid PDF", err)
		}
		builder.WriteString(text)
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", apperr.ContentCorrupt("PDF contains no extractable text", nil)
	}

	return text, nil
}
