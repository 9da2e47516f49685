// Package content holds the deterministic presentation layer: the content
// block registry and the page template validator. Nothing in this package
// performs I/O.
package content

import (
	"fmt"
	"strings"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/models"
)

// SingleBlockFunc builds a block from one product record.
type SingleBlockFunc func(product *models.ProductRecord) models.ContentBlock

// CompareBlockFunc builds a block from a primary and a competitor record.
type CompareBlockFunc func(productA, productB *models.ProductRecord) models.ContentBlock

var singleBlocks = map[string]SingleBlockFunc{
	"benefits":    benefitsBlock,
	"usage":       usageBlock,
	"ingredients": ingredientsBlock,
	"safety":      safetyBlock,
	"skin_type":   skinTypeBlock,
}

var compareBlocks = map[string]CompareBlockFunc{
	"compare_ingredients": compareIngredientsBlock,
	"compare_benefits":    compareBenefitsBlock,
	"compare_price":       comparePriceBlock,
}

// ExecuteBlock runs a single-record block by name.
func ExecuteBlock(name string, product *models.ProductRecord) (models.ContentBlock, error) {
	fn, ok := singleBlocks[name]
	if !ok {
		return models.ContentBlock{}, apperrors.NewBlockNotFoundError(name)
	}
	return fn(product), nil
}

// ExecuteComparisonBlock runs a two-record block by name.
func ExecuteComparisonBlock(name string, productA, productB *models.ProductRecord) (models.ContentBlock, error) {
	fn, ok := compareBlocks[name]
	if !ok {
		return models.ContentBlock{}, apperrors.NewBlockNotFoundError(name)
	}
	return fn(productA, productB), nil
}

func benefitsBlock(product *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "benefits",
		Content: map[string]interface{}{
			"title":       "Key Benefits",
			"items":       product.Benefits,
			"description": fmt.Sprintf("%s offers multiple benefits for your skin.", product.ProductName),
		},
	}
}

func usageBlock(product *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "usage",
		Content: map[string]interface{}{
			"title":        "How to Use",
			"instructions": product.UsageInstructions,
			"tips":         "For best results, use consistently as part of your skincare routine.",
		},
	}
}

func ingredientsBlock(product *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "ingredients",
		Content: map[string]interface{}{
			"title":         "Key Ingredients",
			"ingredients":   product.KeyIngredients,
			"concentration": product.ConcentrationOrDefault(),
		},
	}
}

func safetyBlock(product *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "safety",
		Content: map[string]interface{}{
			"title":        "Safety Information",
			"side_effects": product.SideEffectsOrDefault(),
			"precautions":  "Perform a patch test before first use. Discontinue if irritation occurs.",
		},
	}
}

func skinTypeBlock(product *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "skin_type",
		Content: map[string]interface{}{
			"title":       "Suitable For",
			"skin_types":  product.SkinType,
			"description": fmt.Sprintf("Formulated for %s skin types.", strings.Join(product.SkinType, ", ")),
		},
	}
}

func compareIngredientsBlock(productA, productB *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "ingredient_comparison",
		Content: map[string]interface{}{
			"title": "Ingredient Comparison",
			"product_a": map[string]interface{}{
				"name":        productA.ProductName,
				"ingredients": productA.KeyIngredients,
				"unique":      difference(productA.KeyIngredients, productB.KeyIngredients),
			},
			"product_b": map[string]interface{}{
				"name":        productB.ProductName,
				"ingredients": productB.KeyIngredients,
				"unique":      difference(productB.KeyIngredients, productA.KeyIngredients),
			},
			"common_ingredients": intersection(productA.KeyIngredients, productB.KeyIngredients),
		},
	}
}

func compareBenefitsBlock(productA, productB *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "benefits_comparison",
		Content: map[string]interface{}{
			"title": "Benefits Comparison",
			"product_a": map[string]interface{}{
				"name":     productA.ProductName,
				"benefits": productA.Benefits,
				"unique":   difference(productA.Benefits, productB.Benefits),
			},
			"product_b": map[string]interface{}{
				"name":     productB.ProductName,
				"benefits": productB.Benefits,
				"unique":   difference(productB.Benefits, productA.Benefits),
			},
			"common_benefits": intersection(productA.Benefits, productB.Benefits),
		},
	}
}

func comparePriceBlock(productA, productB *models.ProductRecord) models.ContentBlock {
	return models.ContentBlock{
		Type: "price_comparison",
		Content: map[string]interface{}{
			"title": "Price Comparison",
			"product_a": map[string]interface{}{
				"name":  productA.ProductName,
				"price": productA.Price,
			},
			"product_b": map[string]interface{}{
				"name":  productB.ProductName,
				"price": productB.Price,
			},
			"analysis": fmt.Sprintf("%s is priced at %s while %s is priced at %s.",
				productA.ProductName, productA.Price, productB.ProductName, productB.Price),
		},
	}
}

// intersection preserves the order of a, so repeated runs over the same
// records produce byte-identical payloads.
func intersection(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, v := range a {
		if _, ok := inB[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// difference returns the members of a absent from b, in a's order.
func difference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
