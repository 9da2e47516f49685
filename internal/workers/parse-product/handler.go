// internal/workers/parse-product/handler.go
package parseproduct

import (
	"fmt"
	"strings"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/validation"
	"content-workers/internal/models"
)

const StageName = "parse_input"

// Handler normalizes an untyped product mapping into a validated
// ProductRecord. It performs no I/O.
type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute normalizes, validates and constructs the canonical record.
// Comma-separated list fields are split, and the legacy how_to_use key is
// renamed to usage_instructions before validation.
func (h *Handler) Execute(raw map[string]interface{}) (*models.ProductRecord, error) {
	name, _ := raw["product_name"].(string)
	h.logger.Info("parsing product input", map[string]interface{}{"productName": name})

	normalized := normalize(raw)

	if err := validation.ValidateProduct(normalized); err != nil {
		h.logger.WithError(err).Error("product input failed validation", nil)
		return nil, err
	}

	product, err := models.NewProductRecord(
		stringField(normalized, "product_name"),
		stringField(normalized, "concentration"),
		listField(normalized, "skin_type"),
		listField(normalized, "key_ingredients"),
		listField(normalized, "benefits"),
		stringField(normalized, "usage_instructions"),
		stringField(normalized, "side_effects"),
		stringField(normalized, "price"),
	)
	if err != nil {
		return nil, apperrors.NewInputValidationError(err)
	}

	h.logger.Info("parsed product", map[string]interface{}{"productName": product.ProductName})
	return product, nil
}

// normalize returns a copy of raw with list fields coerced to []string and
// the legacy field key renamed. The input mapping is never mutated.
func normalize(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[k] = v
	}

	if legacy, ok := out["how_to_use"]; ok {
		if _, exists := out["usage_instructions"]; !exists {
			out["usage_instructions"] = legacy
		}
		delete(out, "how_to_use")
	}

	for _, field := range []string{"skin_type", "key_ingredients", "benefits"} {
		out[field] = coerceList(out[field])
	}

	return out
}

// coerceList splits a comma-separated string into trimmed entries, passes
// through existing lists, and leaves anything else for schema validation to
// reject.
func coerceList(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		parts := strings.Split(val, ",")
		out := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []string:
		out := make([]interface{}, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	default:
		return v
	}
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func listField(m map[string]interface{}, key string) []string {
	items, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
