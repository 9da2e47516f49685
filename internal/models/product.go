// internal/models/product.go
package models

import (
	"errors"
	"fmt"
)

// ProductRecord is the canonical product entity. Construct through
// NewProductRecord only; a value that exists is fully valid.
type ProductRecord struct {
	ProductName       string   `json:"product_name"`
	Concentration     string   `json:"concentration,omitempty"`
	SkinType          []string `json:"skin_type"`
	KeyIngredients    []string `json:"key_ingredients"`
	Benefits          []string `json:"benefits"`
	UsageInstructions string   `json:"usage_instructions"`
	SideEffects       string   `json:"side_effects,omitempty"`
	Price             string   `json:"price"`
}

// NewProductRecord builds a fully-validated record. Construction fails
// atomically: either every invariant holds or no record exists.
func NewProductRecord(name, concentration string, skinTypes, keyIngredients, benefits []string, usage, sideEffects, price string) (*ProductRecord, error) {
	switch {
	case name == "":
		return nil, errors.New("product_name is required")
	case len(skinTypes) == 0:
		return nil, errors.New("skin_type must contain at least one entry")
	case len(keyIngredients) == 0:
		return nil, errors.New("key_ingredients must contain at least one entry")
	case len(benefits) == 0:
		return nil, errors.New("benefits must contain at least one entry")
	case usage == "":
		return nil, errors.New("usage_instructions is required")
	case price == "":
		return nil, errors.New("price is required")
	}

	for i, s := range skinTypes {
		if s == "" {
			return nil, fmt.Errorf("skin_type[%d] is empty", i)
		}
	}

	return &ProductRecord{
		ProductName:       name,
		Concentration:     concentration,
		SkinType:          append([]string(nil), skinTypes...),
		KeyIngredients:    append([]string(nil), keyIngredients...),
		Benefits:          append([]string(nil), benefits...),
		UsageInstructions: usage,
		SideEffects:       sideEffects,
		Price:             price,
	}, nil
}

// ConcentrationOrDefault returns the concentration or a display fallback.
func (p *ProductRecord) ConcentrationOrDefault() string {
	if p.Concentration == "" {
		return "Not specified"
	}
	return p.Concentration
}

// SideEffectsOrDefault returns the side effects or a display fallback.
func (p *ProductRecord) SideEffectsOrDefault() string {
	if p.SideEffects == "" {
		return "No known side effects"
	}
	return p.SideEffects
}
