package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	rackPlanner = "rack_planner"

	// Mutation metrics
	mutationsTotal           = "mutations_total"
	invariantRejectionsTotal = "invariant_rejections_total"

	// Labels
	moduleLabel = "module"
	actionLabel = "action"
	resultLabel = "result"
	kindLabel   = "kind"
)

const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

var mutationsTotalLabels = []string{
	moduleLabel,
	actionLabel,
	resultLabel,
}

var invariantRejectionsTotalLabels = []string{
	kindLabel,
}

/**
* Metrics definition
**/
var mutationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: rackPlanner,
		Name:      mutationsTotal,
		Help:      "number of inventory mutations partitioned by module, action and result",
	},
	mutationsTotalLabels,
)

var invariantRejectionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: rackPlanner,
		Name:      invariantRejectionsTotal,
		Help:      "number of mutations rejected because they would break an inventory invariant",
	},
	invariantRejectionsTotalLabels,
)

func IncreaseMutationsTotalMetric(module, action, result string) {
	labels := prometheus.Labels{
		moduleLabel: module,
		actionLabel: action,
		resultLabel: result,
	}
	mutationsTotalMetric.With(labels).Inc()
}

func IncreaseInvariantRejectionsTotalMetric(kind string) {
	labels := prometheus.Labels{
		kindLabel: kind,
	}
	invariantRejectionsTotalMetric.With(labels).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(mutationsTotalMetric)
	prometheus.MustRegister(invariantRejectionsTotalMetric)
}
