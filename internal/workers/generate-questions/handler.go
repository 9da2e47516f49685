// internal/workers/generate-questions/handler.go
package generatequestions

import (
	"context"
	"fmt"
	"strings"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/retry"
	"content-workers/internal/llm"
	"content-workers/internal/models"
)

const StageName = "generate_questions"

const systemPrompt = "You are an expert at generating user questions about skincare products. " +
	"Generate diverse, realistic questions that users would ask. You MUST generate at least 15 questions."

// Handler produces a categorized question list for a product. If the model
// undershoots the minimum counts, the whole generation is re-run up to the
// configured attempt ceiling; exhausting attempts is a hard failure with no
// placeholder padding.
type Handler struct {
	config *Config
	client llm.Client
	policy retry.Policy
	logger logger.Logger
}

func NewHandler(config *Config, client llm.Client, policy retry.Policy, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		policy: policy,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(ctx context.Context, product *models.ProductRecord) ([]models.Question, error) {
	h.logger.Info("generating questions", map[string]interface{}{
		"productName": product.ProductName,
		"minTotal":    h.config.MinTotal,
	})

	var lastCount int
	for attempt := 1; attempt <= h.config.MaxAttempts; attempt++ {
		questions, err := h.generateOnce(ctx, product)
		if err != nil {
			return nil, err
		}

		distribution := countByCategory(questions)
		h.logger.Info("generated question batch", map[string]interface{}{
			"attempt":      attempt,
			"total":        len(questions),
			"distribution": distribution,
		})

		if h.meetsMinimums(questions, distribution) {
			return questions, nil
		}

		lastCount = len(questions)
		h.logger.Warn("question batch below minimum, regenerating", map[string]interface{}{
			"attempt":        attempt,
			"total":          len(questions),
			"minTotal":       h.config.MinTotal,
			"minPerCategory": h.config.MinPerCategory,
		})
	}

	return nil, apperrors.NewQuestionCountError(lastCount, h.config.MinTotal, h.config.MaxAttempts)
}

// generateOnce performs one retried model call and decodes the batch.
// Questions carrying a category outside the closed set are dropped.
func (h *Handler) generateOnce(ctx context.Context, product *models.ProductRecord) ([]models.Question, error) {
	var content string
	err := h.policy.Do(ctx, StageName, h.logger, func(ctx context.Context) error {
		var callErr error
		content, callErr = h.client.Complete(ctx, llm.Request{
			Operation:   StageName,
			System:      systemPrompt,
			User:        h.buildPrompt(product),
			Temperature: h.config.Temperature,
			JSONMode:    true,
		})
		return callErr
	})
	if err != nil {
		if apperrors.CodeOf(err) != "" {
			return nil, err
		}
		return nil, apperrors.NewQuestionGenerationError(err)
	}

	var payload questionsPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(payload.Questions))
	for _, entry := range payload.Questions {
		category := models.Category(entry.Category)
		if !category.Valid() {
			h.logger.Warn("dropping question with unknown category", map[string]interface{}{
				"category": entry.Category,
				"question": entry.Question,
			})
			continue
		}
		if strings.TrimSpace(entry.Question) == "" {
			continue
		}
		questions = append(questions, models.Question{Text: entry.Question, Category: category})
	}
	return questions, nil
}

func (h *Handler) meetsMinimums(questions []models.Question, distribution map[models.Category]int) bool {
	if len(questions) < h.config.MinTotal {
		return false
	}
	for _, category := range models.Categories() {
		if distribution[category] < h.config.MinPerCategory {
			return false
		}
	}
	return true
}

func countByCategory(questions []models.Question) map[models.Category]int {
	distribution := make(map[models.Category]int, len(models.Categories()))
	for _, q := range questions {
		distribution[q.Category]++
	}
	return distribution
}

func (h *Handler) buildPrompt(product *models.ProductRecord) string {
	categories := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		categories = append(categories, string(c))
	}
	categoryList := strings.Join(categories, ", ")

	return fmt.Sprintf(`Generate at least %d diverse user questions about the following skincare product.
Questions must be categorized into these categories: %s.
Ensure at least %d questions per category.

Product Information:
- Name: %s
- Concentration: %s
- Skin Types: %s
- Key Ingredients: %s
- Benefits: %s
- Usage: %s
- Side Effects: %s
- Price: %s

Return a JSON object with this structure:
{
  "questions": [
    {"question": "...", "category": "Informational"},
    {"question": "...", "category": "Safety"},
    ...
  ]
}

Categories must be one of: %s`,
		h.config.MinTotal,
		categoryList,
		h.config.MinPerCategory,
		product.ProductName,
		product.ConcentrationOrDefault(),
		strings.Join(product.SkinType, ", "),
		strings.Join(product.KeyIngredients, ", "),
		strings.Join(product.Benefits, ", "),
		product.UsageInstructions,
		product.SideEffectsOrDefault(),
		product.Price,
		categoryList,
	)
}
