// cmd/pipeline-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"content-workers/internal/common/config"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/observability"
	"content-workers/internal/common/retry"
	"content-workers/internal/llm"
	"content-workers/internal/pipeline"
	generatecompetitor "content-workers/internal/workers/generate-competitor"
	generatequestions "content-workers/internal/workers/generate-questions"
	pageassembly "content-workers/internal/workers/page-assembly"
	parseproduct "content-workers/internal/workers/parse-product"
)

var (
	productFile string
	outputDir   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pipeline-manager",
		Short: "Generate product, FAQ and comparison pages from a product record",
		Long: "pipeline-manager runs the content generation pipeline: it parses a product\n" +
			"record, synthesizes a fictional competitor, generates categorized questions,\n" +
			"assembles three pages in parallel and persists them as JSON artifacts.",
		RunE: run,
	}

	rootCmd.Flags().StringVar(&productFile, "product-file", "", "path to a JSON file with product fields (default: built-in sample record)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for generated artifacts (overrides configuration)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if outputDir != "" {
		cfg.Pipeline.OutputDir = outputDir
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	raw, err := loadProductInput(productFile)
	if err != nil {
		return err
	}

	orch := buildOrchestrator(cfg, log, obs)

	started := time.Now()
	artifacts, err := orch.Run(context.Background(), raw)
	if err != nil {
		return err
	}

	log.Info("generation complete", map[string]interface{}{
		"elapsed": time.Since(started).String(),
	})
	for _, key := range []string{"faq", "product", "comparison"} {
		fmt.Printf("%s: %s\n", key, artifacts[key])
	}
	return nil
}

func buildOrchestrator(cfg *config.Config, log logger.Logger, obs *observability.Observability) *pipeline.Orchestrator {
	var client llm.Client = llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: time.Duration(cfg.OpenAI.Timeout) * time.Millisecond,
	}, log)

	if cfg.Cache.Enabled {
		client = llm.NewCachingClient(client, llm.CacheConfig{
			Address: cfg.Cache.Address,
			DB:      cfg.Cache.DB,
			TTL:     cfg.Cache.TTLDuration(),
		}, log)
	}

	policy := retry.Policy{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		InitialBackoff: cfg.Retry.InitialBackoffDuration(),
		MaxBackoff:     cfg.Retry.MaxBackoffDuration(),
		Multiplier:     cfg.Retry.Multiplier,
	}

	questionsCfg := generatequestions.LoadConfig()
	questionsCfg.MinTotal = cfg.Questions.MinTotal
	questionsCfg.MinPerCategory = cfg.Questions.MinPerCategory
	questionsCfg.MaxAttempts = cfg.Questions.MaxAttempts

	assemblyCfg := pageassembly.LoadConfig()
	assemblyCfg.StrictTemplates = cfg.Pipeline.StrictTemplates

	return pipeline.NewOrchestrator(
		parseproduct.NewHandler(log),
		generatecompetitor.NewHandler(generatecompetitor.LoadConfig(), client, policy, log),
		generatequestions.NewHandler(questionsCfg, client, policy, log),
		pageassembly.NewHandler(assemblyCfg, client, policy, log),
		pipeline.NewArtifactStore(cfg.Pipeline.OutputDir),
		obs,
		cfg.Pipeline.NodeTimeoutDuration(),
		log,
	)
}

// loadProductInput reads the product mapping from a JSON file, or falls back
// to the built-in sample record.
func loadProductInput(path string) (map[string]interface{}, error) {
	if path == "" {
		return defaultProductInput(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read product file: %w", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode product file %s: %w", path, err)
	}
	return raw, nil
}

func defaultProductInput() map[string]interface{} {
	return map[string]interface{}{
		"product_name":       "GlowBoost Vitamin C Serum",
		"concentration":      "15%",
		"skin_type":          "oily, combination, normal",
		"key_ingredients":    "Vitamin C (L-Ascorbic Acid), Hyaluronic Acid, Vitamin E",
		"benefits":           "brightening, anti-aging, hydration, even skin tone",
		"usage_instructions": "Apply 3-4 drops to clean face in the morning before moisturizer. Use sunscreen during the day.",
		"side_effects":       "Mild tingling for sensitive skin",
		"price":              "$29.99",
	}
}
