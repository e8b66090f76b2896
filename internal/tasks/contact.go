package tasks

import (
	"context"
	"strings"

	"github.com/hiresense/hiresense/internal/apperr"
	"github.com/hiresense/hiresense/internal/extract"
	"github.com/hiresense/hiresense/internal/ollama"
)

// Unknown is the sentinel used instead of null/absence for any contact field
// the model could not determine.
const Unknown = "unknown"

// UnknownDepartment is returned for career fields outside the static mapping.
const UnknownDepartment = "Unknown Department"

// ContactInfo holds the identity fields extracted from a resume. Every field
// is always populated, defaulting to the "unknown" sentinel.
type ContactInfo struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CareerField string `json:"career_field"`
	Department  string `json:"department"`
}

// departmentByField maps the career-field vocabulary offered to the model
// onto the organisation's eight department buckets. Read-only after process
// start; the vocabulary listed in the contact prompt must stay in sync with
// these keys.
var departmentByField = map[string]string{
	"software_development":  "Engineering Department",
	"it_operations":         "Engineering Department",
	"data_science":          "Data & Analytics Department",
	"business_intelligence": "Data & Analytics Department",
	"design":                "Design Department",
	"marketing":             "Marketing & Communications Department",
	"sales":                 "Sales Department",
	"business_development":  "Sales Department",
	"finance":               "Finance Department",
	"accounting":            "Finance Department",
	"human_resources":       "People Operations Department",
	"customer_support":      "Customer Success Department",
}

// ResolveDepartment maps a career-field label to its department. Pure lookup,
// no model call; anything outside the table (including the "unknown"
// sentinel) resolves to UnknownDepartment.
func ResolveDepartment(careerField string) string {
	dept, ok := departmentByField[strings.ToLower(strings.TrimSpace(careerField))]
	if !ok {
		return UnknownDepartment
	}
	return dept
}

// ExtractContactInfo runs one structured-output chat call against the
// document and resolves the department locally. A transport failure
// propagates as-is; a reply with no usable content is malformed output so
// callers can tell "unreachable" from "unusable answer".
func (r *Runner) ExtractContactInfo(ctx context.Context, document string) (*ContactInfo, error) {
	messages := []ollama.Message{
		{Role: "user", Content: buildDocumentPrompt(contactInfoPrompt, document)},
	}

	raw, err := r.gateway.ChatStream(ctx, r.models.Extraction, messages, "json")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw) == "" {
		return nil, apperr.MalformedOutput("model produced no usable content", nil)
	}

	obj, err := extract.JSONObject(raw)
	if err != nil {
		return nil, err
	}

	info := &ContactInfo{
		FirstName:   fieldOrUnknown(obj, "first_name"),
		LastName:    fieldOrUnknown(obj, "last_name"),
		Email:       fieldOrUnknown(obj, "email"),
		Phone:       fieldOrUnknown(obj, "phone"),
		CareerField: fieldOrUnknown(obj, "career_field"),
	}
	info.Department = ResolveDepartment(info.CareerField)

	return info, nil
}

func fieldOrUnknown(obj map[string]any, key string) string {
	if val := extract.StringField(obj, key); val != "" {
		return val
	}
	return Unknown
}
