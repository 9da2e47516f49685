// internal/llm/openai.go
package llm

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/metrics"
)

// OpenAIConfig holds the connection settings for the OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // empty means the public endpoint
	Timeout time.Duration
}

type openAIClient struct {
	client *openai.Client
	model  string
	logger logger.Logger
}

// NewOpenAIClient builds a Client backed by the OpenAI chat completions API.
func NewOpenAIClient(cfg OpenAIConfig, log logger.Logger) Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &openAIClient{
		client: openai.NewClientWithConfig(apiCfg),
		model:  cfg.Model,
		logger: log.WithFields(map[string]interface{}{"component": "llm"}),
	}
}

func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		classified := classifyError(err)
		metrics.LLMRequests.WithLabelValues(req.Operation, string(apperrors.CodeOf(classified))).Inc()
		c.logger.Error("completion request failed", map[string]interface{}{
			"operation": req.Operation,
			"error":     classified.Error(),
		})
		return "", classified
	}

	if len(resp.Choices) == 0 {
		err := apperrors.NewLLMResponseInvalidError(errors.New("response contained no choices"))
		metrics.LLMRequests.WithLabelValues(req.Operation, string(apperrors.ErrCodeLLMResponseInvalid)).Inc()
		return "", err
	}

	metrics.LLMRequests.WithLabelValues(req.Operation, "ok").Inc()
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps transport faults onto the transient-failure taxonomy.
// Rate limits, timeouts and upstream 5xx faults are retryable; everything
// else propagates unchanged and is therefore never retried.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return apperrors.NewLLMTimeoutError(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return apperrors.NewLLMRateLimitedError(err)
		case apiErr.HTTPStatusCode == http.StatusRequestTimeout:
			return apperrors.NewLLMTimeoutError(err)
		case apiErr.HTTPStatusCode >= 500:
			return apperrors.NewLLMAPIError(err)
		default:
			return err
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return apperrors.NewLLMRateLimitedError(err)
		}
		// Transport-level failures without a definitive status are treated
		// as generic upstream faults.
		return apperrors.NewLLMAPIError(err)
	}

	return err
}
