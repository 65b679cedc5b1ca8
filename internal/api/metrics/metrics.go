// Package metrics defines and registers the custom Prometheus metrics for
// the taskboard API. It is the single source of truth for metric names,
// labels, and help strings; registration happens implicitly through
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskboard"

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - priority: "low", "medium", or "high"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TasksUpdatedTotal counts successful task updates, including empty
// patches that only refresh the timestamp.
var TasksUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_updated_total",
		Help:      "Total number of successful task updates.",
	},
)

// TasksDeletedTotal counts successful task deletions.
var TasksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_deleted_total",
		Help:      "Total number of tasks deleted.",
	},
)

// SignInsTotal counts completed OAuth callbacks.
// Label:
//   - result: "success" or "failure"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of OAuth sign-in completions, by result.",
	},
	[]string{"result"},
)
