// Package errors provides standardized error handling for the content
// generation pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input / validation errors (never retried)
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeConfigInvalid         ErrorCode = "CONFIG_INVALID"

	// Stage errors
	ErrCodeCompetitorGenerationFailed ErrorCode = "COMPETITOR_GENERATION_FAILED"
	ErrCodeCompetitorDecodeFailed     ErrorCode = "COMPETITOR_DECODE_FAILED"
	ErrCodeQuestionGenerationFailed   ErrorCode = "QUESTION_GENERATION_FAILED"
	ErrCodeQuestionCountBelowMinimum  ErrorCode = "QUESTION_COUNT_BELOW_MINIMUM"
	ErrCodeAnswerAlignmentFailed      ErrorCode = "ANSWER_ALIGNMENT_FAILED"
	ErrCodeRecommendationFailed       ErrorCode = "RECOMMENDATION_FAILED"

	// Content registry / template errors
	ErrCodeBlockNotFound            ErrorCode = "BLOCK_NOT_FOUND"
	ErrCodeBlockExecutionFailed     ErrorCode = "BLOCK_EXECUTION_FAILED"
	ErrCodeTemplateNotFound         ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateValidationFailed ErrorCode = "TEMPLATE_VALIDATION_FAILED"

	// External text-generation capability (transient, retried)
	ErrCodeLLMRateLimited ErrorCode = "LLM_RATE_LIMITED"
	ErrCodeLLMTimeout     ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMAPIError    ErrorCode = "LLM_API_ERROR"

	// External text-generation capability (permanent)
	ErrCodeLLMResponseInvalid ErrorCode = "LLM_RESPONSE_INVALID"

	// Persistence
	ErrCodeOutputWriteFailed ErrorCode = "OUTPUT_WRITE_FAILED"

	// Orchestration
	ErrCodePipelineNodeFailed ErrorCode = "PIPELINE_NODE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message string, retryable bool, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInputValidationError creates a non-retryable input error.
func NewInputValidationError(cause error) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Invalid product input data", false, cause)
}

// NewCompetitorGenerationError creates a non-retryable stage error.
func NewCompetitorGenerationError(cause error) *StandardError {
	return newError(ErrCodeCompetitorGenerationFailed, "Competitor product generation failed", false, cause)
}

// NewCompetitorDecodeError flags a generated product that failed schema validation.
func NewCompetitorDecodeError(cause error) *StandardError {
	return newError(ErrCodeCompetitorDecodeFailed, "Generated competitor product is invalid", false, cause)
}

// NewQuestionGenerationError creates a non-retryable stage error.
func NewQuestionGenerationError(cause error) *StandardError {
	return newError(ErrCodeQuestionGenerationFailed, "Question generation failed", false, cause)
}

// NewQuestionCountError flags an undershoot that survived all generation attempts.
func NewQuestionCountError(got, want, attempts int) *StandardError {
	err := newError(ErrCodeQuestionCountBelowMinimum,
		fmt.Sprintf("Generated %d questions, need at least %d after %d attempts", got, want, attempts),
		false, nil)
	err.Metadata = map[string]interface{}{
		"generated": got,
		"minimum":   want,
		"attempts":  attempts,
	}
	return err
}

// NewAnswerAlignmentError flags answers that could not be matched back to questions.
func NewAnswerAlignmentError(missing []string) *StandardError {
	preview := missing
	if len(preview) > 3 {
		preview = preview[:3]
	}
	err := newError(ErrCodeAnswerAlignmentFailed,
		fmt.Sprintf("%d question(s) missing from generated answers: %v", len(missing), preview),
		false, nil)
	err.Metadata = map[string]interface{}{"missingCount": len(missing)}
	return err
}

// NewRecommendationError creates a non-retryable stage error.
func NewRecommendationError(cause error) *StandardError {
	return newError(ErrCodeRecommendationFailed, "Comparison recommendation generation failed", false, cause)
}

// NewBlockNotFoundError flags a lookup of an unregistered content block.
func NewBlockNotFoundError(blockName string) *StandardError {
	return newError(ErrCodeBlockNotFound, fmt.Sprintf("Unknown content block: %s", blockName), false, nil)
}

// NewTemplateNotFoundError flags a lookup of an unknown page template.
func NewTemplateNotFoundError(templateName string) *StandardError {
	return newError(ErrCodeTemplateNotFound, fmt.Sprintf("Unknown template: %s", templateName), false, nil)
}

// NewTemplateValidationError flags page data that violates its template contract.
func NewTemplateValidationError(templateName string, cause error) *StandardError {
	return newError(ErrCodeTemplateValidationFailed,
		fmt.Sprintf("Page data failed template validation: %s", templateName), false, cause)
}

// NewLLMRateLimitedError creates a retryable upstream error.
func NewLLMRateLimitedError(cause error) *StandardError {
	return newError(ErrCodeLLMRateLimited, "Text-generation service rate limited", true, cause)
}

// NewLLMTimeoutError creates a retryable upstream error.
func NewLLMTimeoutError(cause error) *StandardError {
	return newError(ErrCodeLLMTimeout, "Text-generation request timed out", true, cause)
}

// NewLLMAPIError creates a retryable upstream error.
func NewLLMAPIError(cause error) *StandardError {
	return newError(ErrCodeLLMAPIError, "Text-generation service error", true, cause)
}

// NewLLMResponseInvalidError flags an undecodable model response.
func NewLLMResponseInvalidError(cause error) *StandardError {
	return newError(ErrCodeLLMResponseInvalid, "Text-generation response could not be decoded", false, cause)
}

// NewOutputWriteError creates a non-retryable persistence error.
func NewOutputWriteError(path string, cause error) *StandardError {
	err := newError(ErrCodeOutputWriteFailed, fmt.Sprintf("Failed to write artifact: %s", path), false, cause)
	err.Metadata = map[string]interface{}{"path": path}
	return err
}

// NewConfigInvalidError creates a non-retryable configuration error.
func NewConfigInvalidError(cause error) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", false, cause)
}

// ==========================
// 3. Classification Helpers
// ==========================

// IsRetryable reports whether err is a transient failure that the retry
// policy may attempt again. Unknown error types are never retryable.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// GetErrorCategory groups codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInputValidationFailed, ErrCodeConfigInvalid:
		return "validation"
	case ErrCodeLLMRateLimited, ErrCodeLLMTimeout, ErrCodeLLMAPIError:
		return "transient"
	case ErrCodeAnswerAlignmentFailed, ErrCodeQuestionCountBelowMinimum, ErrCodeTemplateValidationFailed:
		return "content-integrity"
	case ErrCodeOutputWriteFailed:
		return "persistence"
	default:
		return "internal"
	}
}

// ==========================
// 4. Pipeline Error
// ==========================

// PipelineError is the terminal error returned by the orchestrator's Run,
// carrying the first failing node's name and message.
type PipelineError struct {
	Node    string
	Message string
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at node %q: %s", e.Node, e.Message)
}

// NewPipelineError wraps the first node-level failure.
func NewPipelineError(node, message string) *PipelineError {
	return &PipelineError{Node: node, Message: message}
}
