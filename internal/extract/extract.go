// Package extract recovers typed results from free-text model replies. The
// model is a text generator even when asked for JSON, so replies may carry
// prose, markdown fences or stray tokens around the expected payload.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/hiresense/hiresense/internal/apperr"
)

// noneToken is the escape hatch models are instructed to answer with when a
// list prompt yields nothing. Matched case-insensitively against the whole
// reply so a literal skill named "None" inside a list is untouched.
const noneToken = "NONE"

// JSONObject locates the first '{' and the last '}' in raw and decodes the
// substring between them as a JSON object. Prose around the payload is
// ignored. A reply without a decodable object is an error, never an empty
// map: callers must be able to tell "nothing parseable" from "{}".
func JSONObject(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end <= start {
		return nil, apperr.MalformedOutput("no JSON object found in model response", nil)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil {
		return nil, apperr.MalformedOutput("model response is not valid JSON", err)
	}

	return obj, nil
}

// CommaList splits a comma-separated model reply into trimmed items, dropping
// empties. A whole-reply NONE (any case) means "nothing could be inferred"
// and yields an empty list.
func CommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, noneToken) {
		return nil
	}

	var items []string
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// StringField reads a string value from a decoded JSON object, trimmed.
// Missing keys and non-string values yield the empty string.
func StringField(obj map[string]any, key string) string {
	val, ok := obj[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(val)
}
