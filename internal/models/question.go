// internal/models/question.go
package models

// Category is the closed set of question categories.
type Category string

const (
	CategoryInformational Category = "Informational"
	CategorySafety        Category = "Safety"
	CategoryUsage         Category = "Usage"
	CategoryPurchase      Category = "Purchase"
	CategoryComparison    Category = "Comparison"
)

// Categories returns the closed ordered category set.
func Categories() []Category {
	return []Category{
		CategoryInformational,
		CategorySafety,
		CategoryUsage,
		CategoryPurchase,
		CategoryComparison,
	}
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryInformational, CategorySafety, CategoryUsage, CategoryPurchase, CategoryComparison:
		return true
	}
	return false
}

// Question is an immutable question/category pair.
type Question struct {
	Text     string   `json:"question"`
	Category Category `json:"category"`
}

// FAQItem is a question with its aligned answer.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}
