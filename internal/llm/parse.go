// internal/llm/parse.go
package llm

import (
	"encoding/json"
	"strings"

	apperrors "content-workers/internal/common/errors"
)

// StripFences removes a surrounding markdown code fence from model output.
func StripFences(content string) string {
	clean := strings.TrimSpace(content)

	if strings.HasPrefix(clean, "```") {
		if strings.HasPrefix(clean, "```json") {
			clean = clean[len("```json"):]
		} else {
			clean = clean[len("```"):]
		}
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}

	return strings.TrimSpace(clean)
}

// DecodeJSON parses a JSON object from model output, tolerating markdown
// fences. A decode failure is a permanent LLM_RESPONSE_INVALID error.
func DecodeJSON(content string, v interface{}) error {
	if err := json.Unmarshal([]byte(StripFences(content)), v); err != nil {
		return apperrors.NewLLMResponseInvalidError(err)
	}
	return nil
}
