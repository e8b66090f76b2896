package server

import "github.com/hiresense/hiresense/internal/tasks"

const (
	statusSuccess         = "SUCCESS"
	statusError           = "ERROR"
	statusValidationError = "VALIDATION_ERROR"
)

type resumeParseRequest struct {
	Resume string `json:"resume"`
}

type postingEmbeddingRequest struct {
	PostingString string `json:"posting_string"`
}

type postingEmbeddingBatchRequest struct {
	PostingStrings []string `json:"posting_strings"`
}

type matchAnalyzeRequest struct {
	ParsedCV      string `json:"parsed_cv"`
	PostingString string `json:"posting_string"`
}

type parsedResumeResponse struct {
	Status         string             `json:"status"`
	TechSkills     []string           `json:"tech_skills"`
	SoftSkills     []string           `json:"soft_skills"`
	ParsedCVVector []float64          `json:"parsed_cv_vector"`
	ParsedCVText   string             `json:"parsed_cv_text"`
	CVInfo         *tasks.ContactInfo `json:"cv_info"`
}

type postingEmbeddingResponse struct {
	Status        string    `json:"status"`
	PostingVector []float64 `json:"posting_vector"`
}

type postingEmbeddingBatchResponse struct {
	Status         string      `json:"status"`
	PostingVectors [][]float64 `json:"posting_vectors"`
}

type matchAnalyzeResponse struct {
	Status string `json:"status"`
	Result string `json:"result"`
}

type errorResponse struct {
	Status    string `json:"status"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}
