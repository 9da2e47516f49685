// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineNodeExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_node_executions_total",
			Help: "Total number of pipeline node executions by outcome",
		},
		[]string{"node", "status"},
	)

	PipelineNodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_node_duration_seconds",
			Help: "Duration of pipeline node execution in seconds",
		},
		[]string{"node"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of text-generation requests by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	LLMRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_retries_total",
			Help: "Total number of retried text-generation requests",
		},
		[]string{"operation"},
	)

	LLMCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_cache_hits_total",
			Help: "Text-generation cache lookups by outcome",
		},
		[]string{"result"},
	)
)
