// Package pipeline implements the fixed 7-node content generation DAG:
// parse, competitor generation, question generation, a parallel fan-out of
// the three page assemblies, and artifact persistence.
package pipeline

import (
	"content-workers/internal/models"
)

// State is the orchestrator's shared record for one run. Nodes never mutate
// it directly; each node receives a snapshot and returns a Delta that the
// orchestrator merges. Once Err is set it is never overwritten, so the first
// failing node's message is the one surfaced to the caller.
type State struct {
	RunID string
	Raw   map[string]interface{}

	ProductA  *models.ProductRecord
	ProductB  *models.ProductRecord
	Questions []models.Question

	FAQPage        map[string]interface{}
	ProductPage    map[string]interface{}
	ComparisonPage map[string]interface{}

	// Artifacts maps page type to its persisted file path.
	Artifacts map[string]string

	Err        string
	FailedNode string
}

// Failed reports whether an upstream node has already recorded an error.
func (s *State) Failed() bool {
	return s.Err != ""
}

// Delta is a node's partial state update. A node either fills its own keys
// or sets Err, never both.
type Delta struct {
	ProductA  *models.ProductRecord
	ProductB  *models.ProductRecord
	Questions []models.Question

	FAQPage        map[string]interface{}
	ProductPage    map[string]interface{}
	ComparisonPage map[string]interface{}

	Artifacts map[string]string

	Err        string
	FailedNode string
}

func errDelta(node string, err error) Delta {
	return Delta{Err: err.Error(), FailedNode: node}
}

// merge folds a delta into the state. Err obeys first-error-wins; all other
// keys are disjoint per node by DAG construction, so overwrites cannot occur.
func (s *State) merge(d Delta) {
	if d.Err != "" && s.Err == "" {
		s.Err = d.Err
		s.FailedNode = d.FailedNode
	}
	if d.ProductA != nil {
		s.ProductA = d.ProductA
	}
	if d.ProductB != nil {
		s.ProductB = d.ProductB
	}
	if d.Questions != nil {
		s.Questions = d.Questions
	}
	if d.FAQPage != nil {
		s.FAQPage = d.FAQPage
	}
	if d.ProductPage != nil {
		s.ProductPage = d.ProductPage
	}
	if d.ComparisonPage != nil {
		s.ComparisonPage = d.ComparisonPage
	}
	if d.Artifacts != nil {
		s.Artifacts = d.Artifacts
	}
}

// snapshot returns a copy for concurrent readers during the fan-out stage.
func (s *State) snapshot() State {
	return *s
}
