package reassign

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ops",
		Subsystem: "reassign",
		Name:      "commits_total",
		Help:      "Commit attempts broken down by parent kind, path and result.",
	}, []string{"kind", "path", "result"})

	childrenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ops",
		Subsystem: "reassign",
		Name:      "children_total",
		Help:      "Children applied locally broken down by parent kind and action.",
	}, []string{"kind", "action"})
)
