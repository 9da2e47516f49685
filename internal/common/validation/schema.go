// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "content-workers/internal/common/errors"
)

// productSchema is the contract every product record must satisfy after
// normalization (list fields already split into arrays).
const productSchema = `{
  "type": "object",
  "properties": {
    "product_name":       { "type": "string", "minLength": 1 },
    "concentration":      { "type": ["string", "null"] },
    "skin_type":          { "type": "array", "items": { "type": "string" }, "minItems": 1 },
    "key_ingredients":    { "type": "array", "items": { "type": "string" }, "minItems": 1 },
    "benefits":           { "type": "array", "items": { "type": "string" }, "minItems": 1 },
    "usage_instructions": { "type": "string", "minLength": 1 },
    "side_effects":       { "type": ["string", "null"] },
    "price":              { "type": "string", "minLength": 1 }
  },
  "required": ["product_name", "skin_type", "key_ingredients", "benefits", "usage_instructions", "price"],
  "additionalProperties": true
}`

var productSchemaLoader = gojsonschema.NewStringLoader(productSchema)

// ValidationError describes a single offending field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateProduct checks a normalized product mapping against the schema.
// The returned error enumerates every offending field.
func ValidateProduct(input map[string]interface{}) error {
	result, err := gojsonschema.Validate(productSchemaLoader, gojsonschema.NewGoLoader(input))
	if err != nil {
		return apperrors.NewInputValidationError(fmt.Errorf("schema evaluation failed: %w", err))
	}

	if result.Valid() {
		return nil
	}

	fieldErrors := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		fieldErrors = append(fieldErrors, ValidationError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return apperrors.NewInputValidationError(fmt.Errorf("%s", formatErrors(fieldErrors)))
}

func formatErrors(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}
