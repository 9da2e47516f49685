// internal/content/templates.go
package content

import (
	"fmt"

	apperrors "content-workers/internal/common/errors"
)

// Page type identifiers, also the keys of the artifact map returned by a run.
const (
	PageTypeFAQ        = "faq"
	PageTypeProduct    = "product"
	PageTypeComparison = "comparison"
)

type validateFunc func(payload map[string]interface{}) error

var templates = map[string]validateFunc{
	PageTypeFAQ:        validateFAQPage,
	PageTypeProduct:    validateProductPage,
	PageTypeComparison: validateComparisonPage,
}

// ValidateTemplate checks an assembled page payload against the structural
// contract of its page type. Unknown page types are a lookup failure, not a
// validation failure.
func ValidateTemplate(pageType string, payload map[string]interface{}) error {
	validate, ok := templates[pageType]
	if !ok {
		return apperrors.NewTemplateNotFoundError(pageType)
	}
	if err := validate(payload); err != nil {
		return apperrors.NewTemplateValidationError(pageType, err)
	}
	return nil
}

// TemplateNames returns the known page types.
func TemplateNames() []string {
	return []string{PageTypeFAQ, PageTypeProduct, PageTypeComparison}
}

func validateFAQPage(payload map[string]interface{}) error {
	if err := requireKeys(payload, "page_type", "product_name", "faq_items", "total_questions"); err != nil {
		return err
	}
	if payload["page_type"] != PageTypeFAQ {
		return fmt.Errorf("page_type must be %q, got %v", PageTypeFAQ, payload["page_type"])
	}

	items, ok := payload["faq_items"].([]map[string]interface{})
	if !ok {
		return fmt.Errorf("faq_items must be a list of items")
	}
	for i, item := range items {
		if err := requireKeys(item, "question", "answer", "category"); err != nil {
			return fmt.Errorf("faq_items[%d]: %w", i, err)
		}
	}
	return nil
}

func validateProductPage(payload map[string]interface{}) error {
	if err := requireKeys(payload, "page_type", "product_name", "sections"); err != nil {
		return err
	}
	if payload["page_type"] != PageTypeProduct {
		return fmt.Errorf("page_type must be %q, got %v", PageTypeProduct, payload["page_type"])
	}

	sections, ok := payload["sections"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("sections must be a keyed mapping")
	}
	return requireKeys(sections, "overview", "benefits", "ingredients", "usage", "safety", "skin_type")
}

func validateComparisonPage(payload map[string]interface{}) error {
	if err := requireKeys(payload, "page_type", "products", "comparisons"); err != nil {
		return err
	}
	if payload["page_type"] != PageTypeComparison {
		return fmt.Errorf("page_type must be %q, got %v", PageTypeComparison, payload["page_type"])
	}

	products, ok := payload["products"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("products must be a keyed mapping")
	}
	if err := requireKeys(products, "product_a", "product_b"); err != nil {
		return err
	}

	comparisons, ok := payload["comparisons"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("comparisons must be a keyed mapping")
	}
	return requireKeys(comparisons, "ingredients", "benefits", "price", "skin_types")
}

func requireKeys(m map[string]interface{}, keys ...string) error {
	for _, key := range keys {
		if _, ok := m[key]; !ok {
			return fmt.Errorf("missing required field %q", key)
		}
	}
	return nil
}
