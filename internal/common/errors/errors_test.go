// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryableClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"rate limited", NewLLMRateLimitedError(nil), true},
		{"timeout", NewLLMTimeoutError(nil), true},
		{"upstream error", NewLLMAPIError(nil), true},
		{"response invalid", NewLLMResponseInvalidError(nil), false},
		{"input validation", NewInputValidationError(nil), false},
		{"alignment failure", NewAnswerAlignmentError([]string{"q"}), false},
		{"question undershoot", NewQuestionCountError(10, 15, 3), false},
		{"foreign error", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestStandardError(t *testing.T) {
	t.Run("unwraps its cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := NewCompetitorDecodeError(cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("works through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("stage failed: %w", NewLLMRateLimitedError(nil))
		assert.True(t, IsRetryable(wrapped))
		assert.Equal(t, ErrCodeLLMRateLimited, CodeOf(wrapped))
	})

	t.Run("code of a foreign error is empty", func(t *testing.T) {
		assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	})

	t.Run("message includes code and details", func(t *testing.T) {
		err := NewOutputWriteError("/tmp/out/faq.json", errors.New("disk full"))
		assert.Contains(t, err.Error(), "OUTPUT_WRITE_FAILED")
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, "/tmp/out/faq.json", err.Metadata["path"])
	})
}

func TestQuestionCountError(t *testing.T) {
	err := NewQuestionCountError(12, 15, 3)
	assert.Contains(t, err.Error(), "12")
	assert.Contains(t, err.Error(), "15")
	assert.Equal(t, 12, err.Metadata["generated"])
	assert.Equal(t, 3, err.Metadata["attempts"])
}

func TestAnswerAlignmentError(t *testing.T) {
	t.Run("short lists appear in full", func(t *testing.T) {
		err := NewAnswerAlignmentError([]string{"q1?", "q2?"})
		assert.Contains(t, err.Error(), "q1?")
		assert.Contains(t, err.Error(), "q2?")
	})

	t.Run("long lists are truncated to a preview", func(t *testing.T) {
		err := NewAnswerAlignmentError([]string{"q1?", "q2?", "q3?", "q4?"})
		assert.Contains(t, err.Error(), "4 question(s) missing")
		assert.NotContains(t, err.Error(), "q4?")
		assert.Equal(t, 4, err.Metadata["missingCount"])
	})
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "validation", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "transient", GetErrorCategory(ErrCodeLLMRateLimited))
	assert.Equal(t, "content-integrity", GetErrorCategory(ErrCodeAnswerAlignmentFailed))
	assert.Equal(t, "persistence", GetErrorCategory(ErrCodeOutputWriteFailed))
	assert.Equal(t, "internal", GetErrorCategory(ErrCodeBlockNotFound))
}

func TestPipelineError(t *testing.T) {
	err := NewPipelineError("generate_questions", "QUESTION_COUNT_BELOW_MINIMUM: too few")
	require.EqualError(t, err, `pipeline failed at node "generate_questions": QUESTION_COUNT_BELOW_MINIMUM: too few`)
}
