// internal/workers/generate-competitor/models.go
package generatecompetitor

// competitorPayload is the wire shape the model is instructed to return.
type competitorPayload struct {
	ProductName       string   `json:"product_name"`
	Concentration     string   `json:"concentration"`
	SkinType          []string `json:"skin_type"`
	KeyIngredients    []string `json:"key_ingredients"`
	Benefits          []string `json:"benefits"`
	UsageInstructions string   `json:"usage_instructions"`
	SideEffects       string   `json:"side_effects"`
	Price             string   `json:"price"`
}
