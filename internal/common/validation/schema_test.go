// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "content-workers/internal/common/errors"
)

func validInput() map[string]interface{} {
	return map[string]interface{}{
		"product_name":       "GlowBoost Vitamin C Serum",
		"concentration":      "15%",
		"skin_type":          []interface{}{"oily", "combination"},
		"key_ingredients":    []interface{}{"Vitamin C"},
		"benefits":           []interface{}{"brightening"},
		"usage_instructions": "Apply daily.",
		"side_effects":       "Mild tingling",
		"price":              "$29.99",
	}
}

func TestValidateProduct(t *testing.T) {
	t.Run("accepts a complete record", func(t *testing.T) {
		assert.NoError(t, ValidateProduct(validInput()))
	})

	t.Run("optional fields may be null or absent", func(t *testing.T) {
		input := validInput()
		input["concentration"] = nil
		delete(input, "side_effects")
		assert.NoError(t, ValidateProduct(input))
	})

	t.Run("missing required field names the field", func(t *testing.T) {
		input := validInput()
		delete(input, "usage_instructions")

		err := ValidateProduct(input)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInputValidationFailed, apperrors.CodeOf(err))
		assert.Contains(t, err.Error(), "usage_instructions")
	})

	t.Run("empty list violates the minimum", func(t *testing.T) {
		input := validInput()
		input["benefits"] = []interface{}{}

		err := ValidateProduct(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benefits")
	})

	t.Run("wrong type is rejected", func(t *testing.T) {
		input := validInput()
		input["price"] = 29.99

		err := ValidateProduct(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("multiple violations are all enumerated", func(t *testing.T) {
		input := validInput()
		delete(input, "product_name")
		delete(input, "price")

		err := ValidateProduct(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "product_name")
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("unknown extra fields are tolerated", func(t *testing.T) {
		input := validInput()
		input["brand"] = "GlowCo"
		assert.NoError(t, ValidateProduct(input))
	})
}
