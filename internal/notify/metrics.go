package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish results recorded in ledger_publish_total.
const (
	resultSkipped   = "skipped"
	resultEdited    = "edited"
	resultCreated   = "created"
	resultRecreated = "recreated"
	resultFailed    = "failed"
)

var (
	publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_publish_total",
		Help: "Summary message publish attempts by result.",
	}, []string{"result"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_sync_duration_seconds",
		Help:    "Time spent in one summary sync pass.",
		Buckets: prometheus.DefBuckets,
	})
)
