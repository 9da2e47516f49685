// internal/workers/page-assembly/handler.go
package pageassembly

import (
	"context"
	"fmt"
	"strings"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/retry"
	"content-workers/internal/content"
	"content-workers/internal/llm"
	"content-workers/internal/models"
)

// Node names for the three parallel assembly stages.
const (
	StageFAQ        = "assemble_faq_page"
	StageProduct    = "assemble_product_page"
	StageComparison = "assemble_comparison_page"
)

const answeringSystemPrompt = "You are a helpful skincare product expert. " +
	"Answer questions based only on the provided product information."

const recommendationSystemPrompt = "You are a skincare expert providing product recommendations."

// Handler builds the three page payloads from content blocks, direct record
// fields and (for FAQ answers and the comparison recommendation) one retried
// model call per page.
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
		logger: log.WithFields(map[string]interface{}{"component": "page-assembly"}),
	}
}

// AssembleFAQPage batches all answers into one model call, aligns them back
// to the original question order, and builds the FAQ payload.
func (h *Handler) AssembleFAQPage(ctx context.Context, product *models.ProductRecord, questions []models.Question) (map[string]interface{}, error) {
	h.logger.Info("assembling faq page", map[string]interface{}{
		"productName":   product.ProductName,
		"questionCount": len(questions),
	})

	pairs, err := h.generateAnswersBatch(ctx, product, questions)
	if err != nil {
		return nil, err
	}

	answers, err := AlignAnswers(questions, pairs)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0, len(questions))
	for i, question := range questions {
		items = append(items, map[string]interface{}{
			"question": question.Text,
			"answer":   answers[i],
			"category": string(question.Category),
		})
	}

	page := map[string]interface{}{
		"page_type":       content.PageTypeFAQ,
		"product_name":    product.ProductName,
		"faq_items":       items,
		"total_questions": len(items),
	}

	if err := h.validatePage(content.PageTypeFAQ, page); err != nil {
		return nil, err
	}

	h.logger.Info("assembled faq page", map[string]interface{}{"items": len(items)})
	return page, nil
}

// AssembleProductPage is fully deterministic: an overview section plus the
// five single-record content blocks.
func (h *Handler) AssembleProductPage(product *models.ProductRecord) (map[string]interface{}, error) {
	h.logger.Info("assembling product page", map[string]interface{}{
		"productName": product.ProductName,
	})

	sections := map[string]interface{}{
		"overview": map[string]interface{}{
			"product_name":  product.ProductName,
			"concentration": product.ConcentrationOrDefault(),
			"price":         product.Price,
			"description":   fmt.Sprintf("Premium skincare solution for %s skin types.", strings.Join(product.SkinType, ", ")),
		},
	}

	for _, blockName := range []string{"benefits", "ingredients", "usage", "safety", "skin_type"} {
		block, err := content.ExecuteBlock(blockName, product)
		if err != nil {
			return nil, err
		}
		sections[blockName] = block.Content
	}

	page := map[string]interface{}{
		"page_type":    content.PageTypeProduct,
		"product_name": product.ProductName,
		"sections":     sections,
	}

	if err := h.validatePage(content.PageTypeProduct, page); err != nil {
		return nil, err
	}

	h.logger.Info("assembled product page", nil)
	return page, nil
}

// AssembleComparisonPage combines the three comparison blocks, a skin-type
// analysis and one retried model call for the recommendation text.
func (h *Handler) AssembleComparisonPage(ctx context.Context, productA, productB *models.ProductRecord) (map[string]interface{}, error) {
	h.logger.Info("assembling comparison page", map[string]interface{}{
		"productA": productA.ProductName,
		"productB": productB.ProductName,
	})

	comparisons := map[string]interface{}{
		"skin_types": map[string]interface{}{
			"product_a": productA.SkinType,
			"product_b": productB.SkinType,
			"analysis": fmt.Sprintf("%s suits %s skin, while %s suits %s skin.",
				productA.ProductName, strings.Join(productA.SkinType, ", "),
				productB.ProductName, strings.Join(productB.SkinType, ", ")),
		},
	}

	blockKeys := map[string]string{
		"compare_ingredients": "ingredients",
		"compare_benefits":    "benefits",
		"compare_price":       "price",
	}
	for _, blockName := range []string{"compare_ingredients", "compare_benefits", "compare_price"} {
		block, err := content.ExecuteComparisonBlock(blockName, productA, productB)
		if err != nil {
			return nil, err
		}
		comparisons[blockKeys[blockName]] = block.Content
	}

	recommendation, err := h.generateRecommendation(ctx, productA, productB)
	if err != nil {
		return nil, err
	}

	page := map[string]interface{}{
		"page_type": content.PageTypeComparison,
		"products": map[string]interface{}{
			"product_a": map[string]interface{}{
				"name":        productA.ProductName,
				"ingredients": productA.KeyIngredients,
				"benefits":    productA.Benefits,
				"price":       productA.Price,
				"skin_type":   productA.SkinType,
			},
			"product_b": map[string]interface{}{
				"name":        productB.ProductName,
				"ingredients": productB.KeyIngredients,
				"benefits":    productB.Benefits,
				"price":       productB.Price,
				"skin_type":   productB.SkinType,
			},
		},
		"comparisons":    comparisons,
		"recommendation": recommendation,
	}

	if err := h.validatePage(content.PageTypeComparison, page); err != nil {
		return nil, err
	}

	h.logger.Info("assembled comparison page", nil)
	return page, nil
}

func (h *Handler) generateAnswersBatch(ctx context.Context, product *models.ProductRecord, questions []models.Question) ([]QAPair, error) {
	var lines []string
	for i, q := range questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, q.Text))
	}

	prompt := fmt.Sprintf(`Answer ALL of the following questions about the product based ONLY on the provided product information.
Do not add any information not present in the product data.

Product Information:
- Name: %s
- Concentration: %s
- Skin Types: %s
- Key Ingredients: %s
- Benefits: %s
- Usage: %s
- Side Effects: %s
- Price: %s

Questions:
%s

Provide answers in JSON format with this structure:
{
  "qa_pairs": [
    {
      "question": "Original question text",
      "answer": "Answer to the question (2-3 sentences)"
    },
    ...
  ]
}

Ensure you provide answers for ALL %d questions.`,
		product.ProductName,
		product.ConcentrationOrDefault(),
		strings.Join(product.SkinType, ", "),
		strings.Join(product.KeyIngredients, ", "),
		strings.Join(product.Benefits, ", "),
		product.UsageInstructions,
		product.SideEffectsOrDefault(),
		product.Price,
		strings.Join(lines, "\n"),
		len(questions),
	)

	var raw string
	err := h.policy.Do(ctx, StageFAQ, h.logger, func(ctx context.Context) error {
		var callErr error
		raw, callErr = h.client.Complete(ctx, llm.Request{
			Operation:   StageFAQ,
			System:      answeringSystemPrompt,
			User:        prompt,
			Temperature: h.config.AnswerTemperature,
			JSONMode:    true,
		})
		return callErr
	})
	if err != nil {
		return nil, err
	}

	var payload qaPayload
	if err := llm.DecodeJSON(raw, &payload); err != nil {
		return nil, err
	}
	return payload.QAPairs, nil
}

func (h *Handler) generateRecommendation(ctx context.Context, productA, productB *models.ProductRecord) (string, error) {
	prompt := fmt.Sprintf(`Compare these two skincare products and provide a brief recommendation (2-3 sentences)
about which product might be better for different use cases or skin types.

Product A: %s
- Ingredients: %s
- Benefits: %s
- Skin Types: %s
- Price: %s

Product B: %s
- Ingredients: %s
- Benefits: %s
- Skin Types: %s
- Price: %s`,
		productA.ProductName,
		strings.Join(productA.KeyIngredients, ", "),
		strings.Join(productA.Benefits, ", "),
		strings.Join(productA.SkinType, ", "),
		productA.Price,
		productB.ProductName,
		strings.Join(productB.KeyIngredients, ", "),
		strings.Join(productB.Benefits, ", "),
		strings.Join(productB.SkinType, ", "),
		productB.Price,
	)

	var raw string
	err := h.policy.Do(ctx, StageComparison, h.logger, func(ctx context.Context) error {
		var callErr error
		raw, callErr = h.client.Complete(ctx, llm.Request{
			Operation:   StageComparison,
			System:      recommendationSystemPrompt,
			User:        prompt,
			Temperature: h.config.RecommendationTemperature,
			MaxTokens:   h.config.RecommendationMaxTokens,
		})
		return callErr
	})
	if err != nil {
		if apperrors.CodeOf(err) != "" {
			return "", err
		}
		return "", apperrors.NewRecommendationError(err)
	}

	recommendation := strings.TrimSpace(raw)
	if recommendation == "" {
		return "", apperrors.NewRecommendationError(fmt.Errorf("model returned an empty recommendation"))
	}
	return recommendation, nil
}

func (h *Handler) validatePage(pageType string, page map[string]interface{}) error {
	err := content.ValidateTemplate(pageType, page)
	if err == nil {
		return nil
	}
	if h.config.StrictTemplates {
		return err
	}
	h.logger.Warn("page failed template validation", map[string]interface{}{
		"pageType": pageType,
		"error":    err.Error(),
	})
	return nil
}
