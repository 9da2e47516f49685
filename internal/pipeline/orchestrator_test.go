// internal/pipeline/orchestrator_test.go
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/retry"
	"content-workers/internal/llm"
	"content-workers/internal/models"
	generatecompetitor "content-workers/internal/workers/generate-competitor"
	generatequestions "content-workers/internal/workers/generate-questions"
	pageassembly "content-workers/internal/workers/page-assembly"
	parseproduct "content-workers/internal/workers/parse-product"
)

type scriptedResponse struct {
	content string
	err     error
}

// routedClient serves scripted responses per operation. Safe for the
// concurrent fan-out stage.
type routedClient struct {
	mu        sync.Mutex
	responses map[string][]scriptedResponse
	calls     map[string]int
}

func newRoutedClient() *routedClient {
	return &routedClient{
		responses: make(map[string][]scriptedResponse),
		calls:     make(map[string]int),
	}
}

func (c *routedClient) on(operation string, responses ...scriptedResponse) {
	c.responses[operation] = responses
}

func (c *routedClient) callCount(operation string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[operation]
}

func (c *routedClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	script, ok := c.responses[req.Operation]
	if !ok || len(script) == 0 {
		return "", fmt.Errorf("no scripted response for operation %q", req.Operation)
	}
	idx := c.calls[req.Operation]
	if idx >= len(script) {
		idx = len(script) - 1
	}
	c.calls[req.Operation]++
	resp := script[idx]
	return resp.content, resp.err
}

func newTestOrchestrator(t *testing.T, client llm.Client, outputDir string) *Orchestrator {
	t.Helper()
	log := logger.NewTestLogger(t)
	policy := retry.Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     4 * time.Millisecond,
		Multiplier:     2.0,
	}

	return NewOrchestrator(
		parseproduct.NewHandler(log),
		generatecompetitor.NewHandler(generatecompetitor.LoadConfig(), client, policy, log),
		generatequestions.NewHandler(generatequestions.LoadConfig(), client, policy, log),
		pageassembly.NewHandler(pageassembly.LoadConfig(), client, policy, log),
		NewArtifactStore(outputDir),
		nil,
		0,
		log,
	)
}

func rawInput() map[string]interface{} {
	return map[string]interface{}{
		"product_name":       "X",
		"skin_type":          "Oily, Dry",
		"key_ingredients":    "A, B",
		"benefits":           "C",
		"usage_instructions": "Apply daily",
		"price":              "$10",
	}
}

const competitorJSON = `{
	"product_name": "Y",
	"concentration": "",
	"skin_type": ["Dry"],
	"key_ingredients": ["D"],
	"benefits": ["E"],
	"usage_instructions": "Apply nightly",
	"side_effects": "",
	"price": "$12"
}`

func questionBatchJSON(t *testing.T, perCategory int) string {
	t.Helper()
	var entries []map[string]string
	for _, category := range models.Categories() {
		for i := 0; i < perCategory; i++ {
			entries = append(entries, map[string]string{
				"question": fmt.Sprintf("%s question %d?", category, i+1),
				"category": string(category),
			})
		}
	}
	raw, err := json.Marshal(map[string]interface{}{"questions": entries})
	require.NoError(t, err)
	return string(raw)
}

// matchingAnswersJSON echoes every generated question back with an answer.
func matchingAnswersJSON(t *testing.T, perCategory int) string {
	t.Helper()
	var pairs []map[string]string
	for _, category := range models.Categories() {
		for i := 0; i < perCategory; i++ {
			pairs = append(pairs, map[string]string{
				"question": fmt.Sprintf("%s question %d?", category, i+1),
				"answer":   fmt.Sprintf("Answer for %s %d.", category, i+1),
			})
		}
	}
	raw, err := json.Marshal(map[string]interface{}{"qa_pairs": pairs})
	require.NoError(t, err)
	return string(raw)
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestOrchestrator_Run(t *testing.T) {
	t.Run("end to end produces exactly three artifacts", func(t *testing.T) {
		outputDir := t.TempDir()
		client := newRoutedClient()
		client.on(generatecompetitor.StageName, scriptedResponse{content: competitorJSON})
		client.on(generatequestions.StageName, scriptedResponse{content: questionBatchJSON(t, 3)})
		client.on(pageassembly.StageFAQ, scriptedResponse{content: matchingAnswersJSON(t, 3)})
		client.on(pageassembly.StageComparison, scriptedResponse{content: "Y is better value for dry skin."})

		orch := newTestOrchestrator(t, client, outputDir)
		artifacts, err := orch.Run(context.Background(), rawInput())
		require.NoError(t, err)

		require.Len(t, artifacts, 3)
		for _, key := range []string{"faq", "product", "comparison"} {
			require.Contains(t, artifacts, key)
			_, statErr := os.Stat(artifacts[key])
			require.NoError(t, statErr)
		}
		assert.Equal(t, filepath.Join(outputDir, "faq.json"), artifacts["faq"])

		// FAQ artifact invariant: total_questions == len(faq_items) == 15.
		raw, err := os.ReadFile(artifacts["faq"])
		require.NoError(t, err)
		var faqPage map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &faqPage))
		assert.EqualValues(t, 15, faqPage["total_questions"])
		assert.Len(t, faqPage["faq_items"].([]interface{}), 15)

		// A, B and D share nothing, so the ingredient overlap is empty.
		raw, err = os.ReadFile(artifacts["comparison"])
		require.NoError(t, err)
		var comparisonPage map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &comparisonPage))
		comparisons := comparisonPage["comparisons"].(map[string]interface{})
		ingredients := comparisons["ingredients"].(map[string]interface{})
		assert.Empty(t, ingredients["common_ingredients"])
	})

	t.Run("parse failure short-circuits every downstream node", func(t *testing.T) {
		outputDir := t.TempDir()
		client := newRoutedClient()
		orch := newTestOrchestrator(t, client, outputDir)

		raw := rawInput()
		delete(raw, "price")

		artifacts, err := orch.Run(context.Background(), raw)
		require.Error(t, err)
		assert.Nil(t, artifacts)

		var pipelineErr *apperrors.PipelineError
		require.ErrorAs(t, err, &pipelineErr)
		assert.Equal(t, parseproduct.StageName, pipelineErr.Node)

		// No external calls, no output files.
		assert.Equal(t, 0, client.callCount(generatecompetitor.StageName))
		assert.Equal(t, 0, client.callCount(pageassembly.StageFAQ))
		assert.Equal(t, 0, countFiles(t, outputDir))
	})

	t.Run("failing sibling does not stop the other assembly nodes", func(t *testing.T) {
		outputDir := t.TempDir()
		client := newRoutedClient()
		client.on(generatecompetitor.StageName, scriptedResponse{content: competitorJSON})
		client.on(generatequestions.StageName, scriptedResponse{content: questionBatchJSON(t, 3)})
		// FAQ answers miss every question, failing alignment.
		client.on(pageassembly.StageFAQ, scriptedResponse{content: `{"qa_pairs": []}`})
		client.on(pageassembly.StageComparison, scriptedResponse{content: "Y is better value."})

		orch := newTestOrchestrator(t, client, outputDir)
		artifacts, err := orch.Run(context.Background(), rawInput())
		require.Error(t, err)
		assert.Nil(t, artifacts)

		var pipelineErr *apperrors.PipelineError
		require.ErrorAs(t, err, &pipelineErr)
		assert.Equal(t, pageassembly.StageFAQ, pipelineErr.Node)

		// The comparison sibling still ran its own external call.
		assert.Equal(t, 1, client.callCount(pageassembly.StageComparison))
		// Persistence short-circuited: a failed run yields zero files.
		assert.Equal(t, 0, countFiles(t, outputDir))
	})

	t.Run("persistent question undershoot stops before assembly", func(t *testing.T) {
		outputDir := t.TempDir()
		client := newRoutedClient()
		client.on(generatecompetitor.StageName, scriptedResponse{content: competitorJSON})
		client.on(generatequestions.StageName, scriptedResponse{content: questionBatchJSON(t, 2)})

		orch := newTestOrchestrator(t, client, outputDir)
		artifacts, err := orch.Run(context.Background(), rawInput())
		require.Error(t, err)
		assert.Nil(t, artifacts)

		var pipelineErr *apperrors.PipelineError
		require.ErrorAs(t, err, &pipelineErr)
		assert.Equal(t, generatequestions.StageName, pipelineErr.Node)
		assert.Contains(t, pipelineErr.Error(), "QUESTION_COUNT_BELOW_MINIMUM")

		assert.Equal(t, 3, client.callCount(generatequestions.StageName))
		assert.Equal(t, 0, client.callCount(pageassembly.StageFAQ))
		assert.Equal(t, 0, client.callCount(pageassembly.StageComparison))
		assert.Equal(t, 0, countFiles(t, outputDir))
	})

	t.Run("transient competitor failure recovers within the run", func(t *testing.T) {
		outputDir := t.TempDir()
		client := newRoutedClient()
		client.on(generatecompetitor.StageName,
			scriptedResponse{err: apperrors.NewLLMRateLimitedError(nil)},
			scriptedResponse{content: competitorJSON},
		)
		client.on(generatequestions.StageName, scriptedResponse{content: questionBatchJSON(t, 3)})
		client.on(pageassembly.StageFAQ, scriptedResponse{content: matchingAnswersJSON(t, 3)})
		client.on(pageassembly.StageComparison, scriptedResponse{content: "Either works."})

		orch := newTestOrchestrator(t, client, outputDir)
		artifacts, err := orch.Run(context.Background(), rawInput())
		require.NoError(t, err)
		assert.Len(t, artifacts, 3)
		assert.Equal(t, 2, client.callCount(generatecompetitor.StageName))
	})

	t.Run("legacy how_to_use input survives the whole run", func(t *testing.T) {
		outputDir := t.TempDir()
		client := newRoutedClient()
		client.on(generatecompetitor.StageName, scriptedResponse{content: competitorJSON})
		client.on(generatequestions.StageName, scriptedResponse{content: questionBatchJSON(t, 3)})
		client.on(pageassembly.StageFAQ, scriptedResponse{content: matchingAnswersJSON(t, 3)})
		client.on(pageassembly.StageComparison, scriptedResponse{content: "Either works."})

		raw := rawInput()
		delete(raw, "usage_instructions")
		raw["how_to_use"] = "Apply daily"

		orch := newTestOrchestrator(t, client, outputDir)
		artifacts, err := orch.Run(context.Background(), raw)
		require.NoError(t, err)

		data, err := os.ReadFile(artifacts["product"])
		require.NoError(t, err)
		var productPage map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &productPage))
		sections := productPage["sections"].(map[string]interface{})
		usage := sections["usage"].(map[string]interface{})
		assert.Equal(t, "Apply daily", usage["instructions"])
	})
}

func TestStateMerge(t *testing.T) {
	t.Run("first error wins", func(t *testing.T) {
		state := &State{}
		state.merge(Delta{Err: "first failure", FailedNode: "generate_questions"})
		state.merge(Delta{Err: "second failure", FailedNode: "assemble_faq_page"})

		assert.Equal(t, "first failure", state.Err)
		assert.Equal(t, "generate_questions", state.FailedNode)
	})

	t.Run("parallel deltas merge commutatively", func(t *testing.T) {
		faq := map[string]interface{}{"page_type": "faq"}
		product := map[string]interface{}{"page_type": "product"}
		comparison := map[string]interface{}{"page_type": "comparison"}

		forward := &State{}
		forward.merge(Delta{FAQPage: faq})
		forward.merge(Delta{ProductPage: product})
		forward.merge(Delta{ComparisonPage: comparison})

		backward := &State{}
		backward.merge(Delta{ComparisonPage: comparison})
		backward.merge(Delta{ProductPage: product})
		backward.merge(Delta{FAQPage: faq})

		assert.Equal(t, forward, backward)
	})
}

func TestArtifactStore(t *testing.T) {
	t.Run("writes indented unicode-preserving json", func(t *testing.T) {
		dir := t.TempDir()
		store := NewArtifactStore(dir)

		page := map[string]interface{}{"page_type": "faq", "note": "très doux", "html": "<b>"}
		artifacts, err := store.Persist(page, page, page)
		require.NoError(t, err)
		require.Len(t, artifacts, 3)

		raw, err := os.ReadFile(artifacts["faq"])
		require.NoError(t, err)
		assert.Contains(t, string(raw), "très doux")
		assert.Contains(t, string(raw), "<b>")
		assert.Contains(t, string(raw), "\n  \"")
	})

	t.Run("unwritable directory is an output error", func(t *testing.T) {
		store := NewArtifactStore(filepath.Join(string(os.PathSeparator), "proc", "no-such-dir"))
		_, err := store.Persist(nil, nil, nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeOutputWriteFailed, apperrors.CodeOf(err))
	})
}
