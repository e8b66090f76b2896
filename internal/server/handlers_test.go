package server

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hiresense/hiresense/internal/apperr"
	"github.com/hiresense/hiresense/internal/tasks"
)

type stubPipeline struct {
	mu sync.Mutex

	skills    *tasks.SkillSet
	skillsErr error

	info    *tasks.ContactInfo
	infoErr error

	vector    []float64
	vectorErr error

	vectors    [][]float64
	vectorsErr error

	report    string
	reportErr error

	embedCalls int
}

func (s *stubPipeline) ExtractSkills(context.Context, string) (*tasks.SkillSet, error) {
	return s.skills, s.skillsErr
}

func (s *stubPipeline) ExtractContactInfo(context.Context, string) (*tasks.ContactInfo, error) {
	return s.info, s.infoErr
}

func (s *stubPipeline) EmbedOne(context.Context, string) ([]float64, error) {
	s.mu.Lock()
	s.embedCalls++
	s.mu.Unlock()
	return s.vector, s.vectorErr
}

func (s *stubPipeline) EmbedMany(context.Context, []string) ([][]float64, error) {
	s.mu.Lock()
	s.embedCalls++
	s.mu.Unlock()
	return s.vectors, s.vectorsErr
}

func (s *stubPipeline) AnalyzeMatch(context.Context, string, string) (string, error) {
	return s.report, s.reportErr
}

func (s *stubPipeline) embedCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.embedCalls
}

type stubResumeParser struct {
	text string
	err  error
}

func (s *stubResumeParser) Parse(context.Context, string) (string, error) {
	return s.text, s.err
}

func performJSON(t *testing.T, pipeline Pipeline, resumes ResumeParser, method, path, body string) *ut.ResponseRecorder {
	t.Helper()

	srv := New("127.0.0.1:0", NewHandler(pipeline, resumes, zap.NewNop()), zap.NewNop())

	return ut.PerformRequest(srv.Engine, method, path,
		&ut.Body{Body: strings.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
}

func decodeError(t *testing.T, body []byte) errorResponse {
	t.Helper()

	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestParseResumeCombinedSuccess(t *testing.T) {
	pipeline := &stubPipeline{
		skills: &tasks.SkillSet{Tech: []string{"Go"}, Soft: []string{"Leadership"}},
		info: &tasks.ContactInfo{
			FirstName: "Ada", LastName: "Lovelace",
			Email: "ada@example.com", Phone: "unknown",
			CareerField: "software_development", Department: "Engineering Department",
		},
		vector: []float64{0.1, 0.2},
	}
	parser := &stubResumeParser{text: "parsed resume text"}

	resp := performJSON(t, pipeline, parser, "POST", "/api/v1/parsed-resumes",
		`{"resume":"https://example.com/cv.pdf"}`)
	result := resp.Result()

	require.Equal(t, 200, result.StatusCode())

	var payload parsedResumeResponse
	require.NoError(t, json.Unmarshal(result.Body(), &payload))

	assert.Equal(t, "SUCCESS", payload.Status)
	assert.Equal(t, []string{"Go"}, payload.TechSkills)
	assert.Equal(t, []string{"Leadership"}, payload.SoftSkills)
	assert.Equal(t, []float64{0.1, 0.2}, payload.ParsedCVVector)
	assert.Equal(t, "parsed resume text", payload.ParsedCVText)
	require.NotNil(t, payload.CVInfo)
	assert.Equal(t, "Engineering Department", payload.CVInfo.Department)
}

func TestParseResumeInvalidURL(t *testing.T) {
	cases := []string{
		`{"resume":"not a url"}`,
		`{"resume":"ftp://example.com/cv.pdf"}`,
		`{"resume":""}`,
	}

	for _, body := range cases {
		pipeline := &stubPipeline{}
		resp := performJSON(t, pipeline, &stubResumeParser{}, "POST", "/api/v1/parsed-resumes", body)
		result := resp.Result()

		require.Equal(t, 400, result.StatusCode(), "body: %s", body)

		envelope := decodeError(t, result.Body())
		assert.Equal(t, "VALIDATION_ERROR", envelope.Status)
		assert.Equal(t, "INVALID_REQUEST", envelope.ErrorCode)
		assert.Equal(t, "given url is not valid", envelope.Message)
		assert.Zero(t, pipeline.embedCallCount(), "no model call may be issued for invalid input")
	}
}

func TestParseResumeUnreachableURL(t *testing.T) {
	parser := &stubResumeParser{err: apperr.ContentCorrupt("URL is invalid or unreachable: https://example.com/cv.pdf", nil)}

	resp := performJSON(t, &stubPipeline{}, parser, "POST", "/api/v1/parsed-resumes",
		`{"resume":"https://example.com/cv.pdf"}`)
	result := resp.Result()

	require.Equal(t, 422, result.StatusCode())

	envelope := decodeError(t, result.Body())
	assert.Equal(t, "VALIDATION_ERROR", envelope.Status)
	assert.Equal(t, "UNPROCESSABLE_CONTENT", envelope.ErrorCode)
	assert.Contains(t, envelope.Message, "URL is invalid or unreachable")
}

func TestParseResumeNoPartialSuccess(t *testing.T) {
	// Skills and embedding succeed, contact extraction gets no usable
	// content: the combined request must fail as a whole.
	pipeline := &stubPipeline{
		skills:  &tasks.SkillSet{Tech: []string{"Go"}},
		infoErr: apperr.MalformedOutput("model produced no usable content", nil),
		vector:  []float64{0.1},
	}

	resp := performJSON(t, pipeline, &stubResumeParser{text: "text"}, "POST", "/api/v1/parsed-resumes",
		`{"resume":"https://example.com/cv.pdf"}`)
	result := resp.Result()

	require.Equal(t, 502, result.StatusCode())

	envelope := decodeError(t, result.Body())
	assert.Equal(t, "ERROR", envelope.Status)
	assert.Equal(t, "MALFORMED_MODEL_OUTPUT", envelope.ErrorCode)
	assert.NotContains(t, string(result.Body()), "tech_skills")
}

func TestEmbedPostingWhitespaceOnly(t *testing.T) {
	pipeline := &stubPipeline{vector: []float64{1}}

	resp := performJSON(t, pipeline, &stubResumeParser{}, "POST", "/api/v1/posting-embeddings",
		`{"posting_string":"  "}`)
	result := resp.Result()

	require.Equal(t, 400, result.StatusCode())

	envelope := decodeError(t, result.Body())
	assert.Equal(t, "VALIDATION_ERROR", envelope.Status)
	assert.Equal(t, "EMPTY_STRING", envelope.ErrorCode)
	assert.Zero(t, pipeline.embedCallCount(), "validation must happen before any network call")
}

func TestEmbedPostingSuccess(t *testing.T) {
	pipeline := &stubPipeline{vector: []float64{0.5, 0.6}}

	resp := performJSON(t, pipeline, &stubResumeParser{}, "POST", "/api/v1/posting-embeddings",
		`{"posting_string":"We are hiring a Go engineer"}`)
	result := resp.Result()

	require.Equal(t, 200, result.StatusCode())

	var payload postingEmbeddingResponse
	require.NoError(t, json.Unmarshal(result.Body(), &payload))
	assert.Equal(t, "SUCCESS", payload.Status)
	assert.Equal(t, []float64{0.5, 0.6}, payload.PostingVector)
}

func TestEmbedPostingTransportFailure(t *testing.T) {
	pipeline := &stubPipeline{vectorErr: apperr.Transport("model host unreachable", nil)}

	resp := performJSON(t, pipeline, &stubResumeParser{}, "POST", "/api/v1/posting-embeddings",
		`{"posting_string":"posting"}`)
	result := resp.Result()

	require.Equal(t, 502, result.StatusCode())

	envelope := decodeError(t, result.Body())
	assert.Equal(t, "ERROR", envelope.Status)
	assert.Equal(t, "MODEL_UNREACHABLE", envelope.ErrorCode)
}

func TestEmbedPostingBatch(t *testing.T) {
	pipeline := &stubPipeline{vectors: [][]float64{{1}, {2}}}

	resp := performJSON(t, pipeline, &stubResumeParser{}, "POST", "/api/v1/posting-embeddings/batch",
		`{"posting_strings":["a","b"]}`)
	result := resp.Result()

	require.Equal(t, 200, result.StatusCode())

	var payload postingEmbeddingBatchResponse
	require.NoError(t, json.Unmarshal(result.Body(), &payload))
	assert.Len(t, payload.PostingVectors, 2)
}

func TestEmbedPostingBatchRejectsBlankElement(t *testing.T) {
	pipeline := &stubPipeline{vectors: [][]float64{{1}, {2}}}

	for _, body := range []string{
		`{"posting_strings":["a","  "]}`,
		`{"posting_strings":[]}`,
	} {
		resp := performJSON(t, pipeline, &stubResumeParser{}, "POST", "/api/v1/posting-embeddings/batch", body)
		result := resp.Result()

		require.Equal(t, 400, result.StatusCode(), "body: %s", body)
		envelope := decodeError(t, result.Body())
		assert.Equal(t, "EMPTY_STRING", envelope.ErrorCode)
	}
	assert.Zero(t, pipeline.embedCallCount())
}

func TestAnalyzeMatch(t *testing.T) {
	pipeline := &stubPipeline{report: "Strengths:\n- Go\n\nGaps:\n- none\n\nSummary:\nGood fit."}

	resp := performJSON(t, pipeline, &stubResumeParser{}, "POST", "/api/v1/match-analyses",
		`{"parsed_cv":"cv text","posting_string":"posting text"}`)
	result := resp.Result()

	require.Equal(t, 200, result.StatusCode())

	var payload matchAnalyzeResponse
	require.NoError(t, json.Unmarshal(result.Body(), &payload))
	assert.Equal(t, "SUCCESS", payload.Status)
	assert.Contains(t, payload.Result, "Summary:")
}

func TestAnalyzeMatchRequiresBothDocuments(t *testing.T) {
	for _, body := range []string{
		`{"parsed_cv":"","posting_string":"posting"}`,
		`{"parsed_cv":"cv","posting_string":"   "}`,
	} {
		resp := performJSON(t, &stubPipeline{report: "x"}, &stubResumeParser{}, "POST", "/api/v1/match-analyses", body)
		result := resp.Result()

		require.Equal(t, 400, result.StatusCode(), "body: %s", body)
		envelope := decodeError(t, result.Body())
		assert.Equal(t, "EMPTY_STRING", envelope.ErrorCode)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	resp := performJSON(t, &stubPipeline{vector: []float64{1}}, &stubResumeParser{}, "POST", "/api/v1/posting-embeddings",
		`{"posting_string":"posting"}`)
	result := resp.Result()

	assert.NotEmpty(t, result.Header.Get("X-Request-ID"))
}
