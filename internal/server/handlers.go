// Package server is the HTTP boundary. Handlers bind and validate requests,
// drive the tasks layer and render every failure as the uniform error
// envelope. No model-call detail leaks past this package.
package server

import (
	"context"
	"net/url"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hiresense/hiresense/internal/apperr"
	"github.com/hiresense/hiresense/internal/tasks"
)

// Pipeline is what the handlers need from the tasks layer.
type Pipeline interface {
	ExtractSkills(ctx context.Context, document string) (*tasks.SkillSet, error)
	ExtractContactInfo(ctx context.Context, document string) (*tasks.ContactInfo, error)
	EmbedOne(ctx context.Context, text string) ([]float64, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float64, error)
	AnalyzeMatch(ctx context.Context, candidate, posting string) (string, error)
}

// ResumeParser turns a resume URL into plain text.
type ResumeParser interface {
	Parse(ctx context.Context, url string) (string, error)
}

// Handler holds the request handlers.
type Handler struct {
	pipeline Pipeline
	resumes  ResumeParser
	logger   *zap.Logger
}

func NewHandler(pipeline Pipeline, resumes ResumeParser, logger *zap.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		resumes:  resumes,
		logger:   logger,
	}
}

// ParseResume handles POST /api/v1/parsed-resumes: download and parse the
// resume, then run skill extraction, contact extraction and embedding. The
// response is all-or-nothing; if any piece fails the whole request fails.
func (h *Handler) ParseResume(ctx context.Context, c *app.RequestContext) {
	var req resumeParseRequest
	if err := c.BindAndValidate(&req); err != nil {
		h.renderError(c, apperr.InvalidRequest("given request is not valid"))
		return
	}

	if !isHTTPURL(req.Resume) {
		h.renderError(c, apperr.InvalidRequest("given url is not valid"))
		return
	}

	text, err := h.resumes.Parse(ctx, req.Resume)
	if err != nil {
		h.renderError(c, err)
		return
	}

	var (
		skills *tasks.SkillSet
		info   *tasks.ContactInfo
		vector []float64
	)

	// The three extractions are independent; run them in parallel but return
	// a combined payload only when all of them succeeded.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skills, err = h.pipeline.ExtractSkills(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		info, err = h.pipeline.ExtractContactInfo(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		vector, err = h.pipeline.EmbedOne(gctx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(consts.StatusOK, parsedResumeResponse{
		Status:         statusSuccess,
		TechSkills:     emptyIfNil(skills.Tech),
		SoftSkills:     emptyIfNil(skills.Soft),
		ParsedCVVector: emptyIfNil(vector),
		ParsedCVText:   text,
		CVInfo:         info,
	})
}

// EmbedPosting handles POST /api/v1/posting-embeddings.
func (h *Handler) EmbedPosting(ctx context.Context, c *app.RequestContext) {
	var req postingEmbeddingRequest
	if err := c.BindAndValidate(&req); err != nil {
		h.renderError(c, apperr.InvalidRequest("given request is not valid"))
		return
	}

	if strings.TrimSpace(req.PostingString) == "" {
		h.renderError(c, apperr.EmptyString("given string is not valid"))
		return
	}

	vector, err := h.pipeline.EmbedOne(ctx, req.PostingString)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(consts.StatusOK, postingEmbeddingResponse{
		Status:        statusSuccess,
		PostingVector: emptyIfNil(vector),
	})
}

// EmbedPostingBatch handles POST /api/v1/posting-embeddings/batch.
func (h *Handler) EmbedPostingBatch(ctx context.Context, c *app.RequestContext) {
	var req postingEmbeddingBatchRequest
	if err := c.BindAndValidate(&req); err != nil {
		h.renderError(c, apperr.InvalidRequest("given request is not valid"))
		return
	}

	if len(req.PostingStrings) == 0 {
		h.renderError(c, apperr.EmptyString("given string is not valid"))
		return
	}
	for _, s := range req.PostingStrings {
		if strings.TrimSpace(s) == "" {
			h.renderError(c, apperr.EmptyString("given string is not valid"))
			return
		}
	}

	vectors, err := h.pipeline.EmbedMany(ctx, req.PostingStrings)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(consts.StatusOK, postingEmbeddingBatchResponse{
		Status:         statusSuccess,
		PostingVectors: vectors,
	})
}

// AnalyzeMatch handles POST /api/v1/match-analyses.
func (h *Handler) AnalyzeMatch(ctx context.Context, c *app.RequestContext) {
	var req matchAnalyzeRequest
	if err := c.BindAndValidate(&req); err != nil {
		h.renderError(c, apperr.InvalidRequest("given request is not valid"))
		return
	}

	if strings.TrimSpace(req.ParsedCV) == "" || strings.TrimSpace(req.PostingString) == "" {
		h.renderError(c, apperr.EmptyString("given string is not valid"))
		return
	}

	result, err := h.pipeline.AnalyzeMatch(ctx, req.ParsedCV, req.PostingString)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(consts.StatusOK, matchAnalyzeResponse{
		Status: statusSuccess,
		Result: result,
	})
}

// renderError maps any failure to the error envelope. Internal detail is
// logged, never returned.
func (h *Handler) renderError(c *app.RequestContext, err error) {
	appErr := apperr.From(err)

	status := statusError
	switch appErr.Kind {
	case apperr.KindInvalidInput, apperr.KindUnsupportedContent, apperr.KindContentCorrupt:
		status = statusValidationError
	}

	h.logger.Error("request failed",
		zap.String("request_id", requestID(c)),
		zap.String("error_code", appErr.Code),
		zap.Error(err),
	)

	c.JSON(appErr.Status, errorResponse{
		Status:    status,
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
	})
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
