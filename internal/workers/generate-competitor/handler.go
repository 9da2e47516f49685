// internal/workers/generate-competitor/handler.go
package generatecompetitor

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

const StageName = "generate_competitor_record"

const systemPrompt = "You are an expert at creating realistic fictional skincare products. " +
	"Generate a competitor product that is similar but distinct from the reference product."

// Handler synthesizes a fictional competitor record from a reference product
// via one retried model call.
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

// Execute generates a competitor record. The model response must decode into
// a complete valid product; any decode or validation failure fails the stage.
func (h *Handler) Execute(ctx context.Context, reference *models.ProductRecord) (*models.ProductRecord, error) {
	h.logger.Info("generating competitor product", map[string]interface{}{
		"referenceProduct": reference.ProductName,
	})

	var content string
	err := h.policy.Do(ctx, StageName, h.logger, func(ctx context.Context) error {
		var callErr error
		content, callErr = h.client.Complete(ctx, llm.Request{
			Operation:   StageName,
			System:      systemPrompt,
			User:        buildPrompt(reference),
			Temperature: h.config.Temperature,
			JSONMode:    true,
		})
		return callErr
	})
	if err != nil {
		if apperrors.CodeOf(err) != "" {
			return nil, err
		}
		return nil, apperrors.NewCompetitorGenerationError(err)
	}

	var payload competitorPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, apperrors.NewCompetitorDecodeError(err)
	}

	competitor, err := models.NewProductRecord(
		payload.ProductName,
		payload.Concentration,
		payload.SkinType,
		payload.KeyIngredients,
		payload.Benefits,
		payload.UsageInstructions,
		payload.SideEffects,
		payload.Price,
	)
	if err != nil {
		return nil, apperrors.NewCompetitorDecodeError(err)
	}

	h.logger.Info("generated competitor product", map[string]interface{}{
		"competitorProduct": competitor.ProductName,
	})
	return competitor, nil
}

func buildPrompt(reference *models.ProductRecord) string {
	return fmt.Sprintf(`Generate a realistic fictional competitor skincare product based on the reference product below.

The competitor product should:
1. Have a DIFFERENT product name (creative and realistic)
2. Target DIFFERENT or overlapping skin types
3. Use DIFFERENT key ingredients (but in the same category - e.g., if reference uses Vitamin C, competitor might use Niacinamide)
4. Offer similar but distinct benefits
5. Have competitive pricing (within 20%% of reference price)
6. Be a realistic product that could exist in the market

Reference Product:
- Name: %s
- Concentration: %s
- Skin Types: %s
- Key Ingredients: %s
- Benefits: %s
- Usage: %s
- Side Effects: %s
- Price: %s

Generate a competitor product in this EXACT JSON structure:
{
  "product_name": "...",
  "concentration": "...",
  "skin_type": ["...", "..."],
  "key_ingredients": ["...", "...", "..."],
  "benefits": ["...", "...", "..."],
  "usage_instructions": "...",
  "side_effects": "...",
  "price": "$..."
}

IMPORTANT: Return ONLY valid JSON matching the structure above. Ensure all fields are present and properly formatted.`,
		reference.ProductName,
		reference.ConcentrationOrDefault(),
		strings.Join(reference.SkinType, ", "),
		strings.Join(reference.KeyIngredients, ", "),
		strings.Join(reference.Benefits, ", "),
		reference.UsageInstructions,
		reference.SideEffectsOrDefault(),
		reference.Price,
	)
}
