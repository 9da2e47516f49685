// internal/workers/page-assembly/alignment.go
package pageassembly

import (
	"fmt"
	"strings"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/models"
)

// QAPair is one question/answer pair as echoed back by the model. The
// question text may be reworded, reordered or case/whitespace-varied
// relative to what was sent.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AlignAnswers reconciles an unordered batch of returned pairs against the
// original ordered question list, producing answers in the original order.
//
// Matching is exact on normalized text first, then falls back to substring
// containment in both directions, accepting the first hit in the scan order
// of the returned pairs. Any question left unmatched fails the whole batch.
// Silently blank answers must never reach an output page.
func AlignAnswers(questions []models.Question, pairs []QAPair) ([]string, error) {
	byNormalized := make(map[string]string, len(pairs))
	normalizedKeys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		key := normalize(pair.Question)
		if _, exists := byNormalized[key]; !exists {
			byNormalized[key] = pair.Answer
			normalizedKeys = append(normalizedKeys, key)
		}
	}

	answers := make([]string, 0, len(questions))
	var missing []string

	for _, question := range questions {
		target := normalize(question.Text)

		if answer, ok := byNormalized[target]; ok {
			answers = append(answers, answer)
			continue
		}

		matched := false
		for _, key := range normalizedKeys {
			if strings.Contains(key, target) || strings.Contains(target, key) {
				answers = append(answers, byNormalized[key])
				matched = true
				break
			}
		}
		if !matched {
			missing = append(missing, question.Text)
		}
	}

	if len(missing) > 0 {
		return nil, apperrors.NewAnswerAlignmentError(missing)
	}

	// Unreachable given the matching logic above, but guards against
	// duplicate-key collisions in the lookup.
	if len(answers) != len(questions) {
		return nil, apperrors.NewAnswerAlignmentError([]string{
			fmt.Sprintf("aligned %d answers for %d questions", len(answers), len(questions)),
		})
	}

	return answers, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
