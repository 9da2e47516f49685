// internal/workers/parse-product/handler_test.go
package parseproduct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
)

func rawProduct() map[string]interface{} {
	return map[string]interface{}{
		"product_name":       "GlowBoost Vitamin C Serum",
		"concentration":      "15%",
		"skin_type":          "oily, combination, normal",
		"key_ingredients":    "Vitamin C, Hyaluronic Acid, Vitamin E",
		"benefits":           "brightening, anti-aging, hydration",
		"usage_instructions": "Apply 3-4 drops to clean face in the morning.",
		"side_effects":       "Mild tingling for sensitive skin",
		"price":              "$29.99",
	}
}

func TestHandler_Execute(t *testing.T) {
	handler := NewHandler(logger.NewTestLogger(t))

	t.Run("splits comma-separated list fields", func(t *testing.T) {
		product, err := handler.Execute(rawProduct())
		require.NoError(t, err)

		assert.Equal(t, []string{"oily", "combination", "normal"}, product.SkinType)
		assert.Equal(t, []string{"Vitamin C", "Hyaluronic Acid", "Vitamin E"}, product.KeyIngredients)
		assert.Equal(t, []string{"brightening", "anti-aging", "hydration"}, product.Benefits)
	})

	t.Run("accepts list fields that are already lists", func(t *testing.T) {
		raw := rawProduct()
		raw["skin_type"] = []interface{}{"dry", "normal"}

		product, err := handler.Execute(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"dry", "normal"}, product.SkinType)
	})

	t.Run("renames legacy how_to_use key", func(t *testing.T) {
		raw := rawProduct()
		delete(raw, "usage_instructions")
		raw["how_to_use"] = "Apply nightly after cleansing."

		product, err := handler.Execute(raw)
		require.NoError(t, err)
		assert.Equal(t, "Apply nightly after cleansing.", product.UsageInstructions)
	})

	t.Run("trims whitespace around list entries", func(t *testing.T) {
		raw := rawProduct()
		raw["benefits"] = " brightening ,  hydration "

		product, err := handler.Execute(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"brightening", "hydration"}, product.Benefits)
	})

	t.Run("missing required field fails validation", func(t *testing.T) {
		raw := rawProduct()
		delete(raw, "price")

		product, err := handler.Execute(raw)
		require.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, apperrors.ErrCodeInputValidationFailed, apperrors.CodeOf(err))
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("empty benefits list fails validation", func(t *testing.T) {
		raw := rawProduct()
		raw["benefits"] = ""

		product, err := handler.Execute(raw)
		require.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, apperrors.ErrCodeInputValidationFailed, apperrors.CodeOf(err))
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		raw := rawProduct()
		delete(raw, "concentration")
		delete(raw, "side_effects")

		product, err := handler.Execute(raw)
		require.NoError(t, err)
		assert.Equal(t, "Not specified", product.ConcentrationOrDefault())
		assert.Equal(t, "No known side effects", product.SideEffectsOrDefault())
	})

	t.Run("does not mutate the caller's mapping", func(t *testing.T) {
		raw := rawProduct()
		_, err := handler.Execute(raw)
		require.NoError(t, err)
		assert.Equal(t, "oily, combination, normal", raw["skin_type"])
	})
}
