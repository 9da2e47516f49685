// internal/pipeline/orchestrator.go
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/metrics"
	"content-workers/internal/common/observability"
	generatecompetitor "content-workers/internal/workers/generate-competitor"
	generatequestions "content-workers/internal/workers/generate-questions"
	pageassembly "content-workers/internal/workers/page-assembly"
	parseproduct "content-workers/internal/workers/parse-product"
)

const NodePersistOutputs = "persist_outputs"

// nodeFunc runs one node against a read-only state snapshot and returns its
// partial update.
type nodeFunc func(ctx context.Context, snap State) Delta

// Orchestrator executes the fixed node graph:
//
//	parse_input
//	  -> generate_competitor_record
//	       -> generate_questions
//	            -> assemble_product_page      (parallel)
//	            -> assemble_faq_page          (parallel)
//	            -> assemble_comparison_page   (parallel)
//	                 [all three] -> persist_outputs
//
// The graph itself never retries; retry is a per-call concern inside the
// stage handlers.
type Orchestrator struct {
	parser     *parseproduct.Handler
	competitor *generatecompetitor.Handler
	questions  *generatequestions.Handler
	assembler  *pageassembly.Handler
	store      *ArtifactStore

	obs         *observability.Observability
	nodeTimeout time.Duration
	logger      logger.Logger
}

func NewOrchestrator(
	parser *parseproduct.Handler,
	competitor *generatecompetitor.Handler,
	questions *generatequestions.Handler,
	assembler *pageassembly.Handler,
	store *ArtifactStore,
	obs *observability.Observability,
	nodeTimeout time.Duration,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		parser:      parser,
		competitor:  competitor,
		questions:   questions,
		assembler:   assembler,
		store:       store,
		obs:         obs,
		nodeTimeout: nodeTimeout,
		logger:      log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// Run executes the whole graph over raw input and returns the artifact map
// {faq, product, comparison} -> path. On failure it returns a PipelineError
// naming the first failing node; a failed run persists nothing.
func (o *Orchestrator) Run(ctx context.Context, raw map[string]interface{}) (map[string]string, error) {
	state := &State{RunID: uuid.NewString(), Raw: raw}
	log := o.logger.WithFields(map[string]interface{}{"runId": state.RunID})
	log.Info("pipeline run started", nil)

	state.merge(o.runNode(ctx, state, parseproduct.StageName, o.parseInput))
	state.merge(o.runNode(ctx, state, generatecompetitor.StageName, o.generateCompetitor))
	state.merge(o.runNode(ctx, state, generatequestions.StageName, o.generateQuestions))

	// Fan-out: the three assembly nodes read a common snapshot and write
	// disjoint keys. A failing sibling must not stop the others, so the
	// group never carries an error; deltas are merged afterwards in fixed
	// node order to keep first-error selection deterministic.
	fanOut := []struct {
		name string
		fn   nodeFunc
	}{
		{pageassembly.StageProduct, o.assembleProductPage},
		{pageassembly.StageFAQ, o.assembleFAQPage},
		{pageassembly.StageComparison, o.assembleComparisonPage},
	}
	deltas := make([]Delta, len(fanOut))
	var g errgroup.Group
	for i, node := range fanOut {
		i, node := i, node
		g.Go(func() error {
			deltas[i] = o.runNode(ctx, state, node.name, node.fn)
			return nil
		})
	}
	_ = g.Wait()
	for _, delta := range deltas {
		state.merge(delta)
	}

	state.merge(o.runNode(ctx, state, NodePersistOutputs, o.persistOutputs))

	if state.Failed() {
		log.Error("pipeline run failed", map[string]interface{}{
			"failedNode": state.FailedNode,
			"error":      state.Err,
		})
		return nil, apperrors.NewPipelineError(state.FailedNode, state.Err)
	}

	log.Info("pipeline run completed", map[string]interface{}{"artifacts": state.Artifacts})
	return state.Artifacts, nil
}

// runNode applies the upstream-error short-circuit rule, the per-node
// timeout, and execution metrics around a node function.
func (o *Orchestrator) runNode(ctx context.Context, state *State, name string, fn nodeFunc) Delta {
	if state.Failed() {
		metrics.PipelineNodeExecutions.WithLabelValues(name, "skipped").Inc()
		return Delta{}
	}

	if o.nodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.nodeTimeout)
		defer cancel()
	}

	start := time.Now()
	delta := fn(ctx, state.snapshot())
	elapsed := time.Since(start)

	status := "ok"
	if delta.Err != "" {
		status = "error"
	}
	metrics.PipelineNodeExecutions.WithLabelValues(name, status).Inc()
	metrics.PipelineNodeDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if o.obs != nil {
		o.obs.RecordNodeProcessed(ctx, name, status)
		o.obs.RecordNodeDuration(ctx, name, elapsed)
	}

	return delta
}

func (o *Orchestrator) parseInput(_ context.Context, snap State) Delta {
	product, err := o.parser.Execute(snap.Raw)
	if err != nil {
		return errDelta(parseproduct.StageName, err)
	}
	return Delta{ProductA: product}
}

func (o *Orchestrator) generateCompetitor(ctx context.Context, snap State) Delta {
	competitor, err := o.competitor.Execute(ctx, snap.ProductA)
	if err != nil {
		return errDelta(generatecompetitor.StageName, err)
	}
	return Delta{ProductB: competitor}
}

func (o *Orchestrator) generateQuestions(ctx context.Context, snap State) Delta {
	questions, err := o.questions.Execute(ctx, snap.ProductA)
	if err != nil {
		return errDelta(generatequestions.StageName, err)
	}
	return Delta{Questions: questions}
}

func (o *Orchestrator) assembleProductPage(_ context.Context, snap State) Delta {
	page, err := o.assembler.AssembleProductPage(snap.ProductA)
	if err != nil {
		return errDelta(pageassembly.StageProduct, err)
	}
	return Delta{ProductPage: page}
}

func (o *Orchestrator) assembleFAQPage(ctx context.Context, snap State) Delta {
	page, err := o.assembler.AssembleFAQPage(ctx, snap.ProductA, snap.Questions)
	if err != nil {
		return errDelta(pageassembly.StageFAQ, err)
	}
	return Delta{FAQPage: page}
}

func (o *Orchestrator) assembleComparisonPage(ctx context.Context, snap State) Delta {
	page, err := o.assembler.AssembleComparisonPage(ctx, snap.ProductA, snap.ProductB)
	if err != nil {
		return errDelta(pageassembly.StageComparison, err)
	}
	return Delta{ComparisonPage: page}
}

func (o *Orchestrator) persistOutputs(_ context.Context, snap State) Delta {
	artifacts, err := o.store.Persist(snap.FAQPage, snap.ProductPage, snap.ComparisonPage)
	if err != nil {
		return errDelta(NodePersistOutputs, err)
	}
	return Delta{Artifacts: artifacts}
}
