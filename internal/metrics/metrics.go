// Package metrics exposes Prometheus counters and histograms for the decode
// pipeline, grounded on the teacher's internal/server/metrics.go.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecodeTotal counts terminal decode outcomes by result.
	DecodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmtx_decode_total",
			Help: "Total number of decode attempts by result",
		},
		[]string{"result"}, // ok, repaired, not_found, unrecoverable
	)

	// DecodeSeconds measures wall-clock time of a full Decode call.
	DecodeSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dmtx_decode_seconds",
			Help:    "Duration of a decode call in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RetryPolicyTotal counts how many times each retry policy index was tried.
	RetryPolicyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmtx_retry_policy_total",
			Help: "Total number of times a given retry policy index was attempted",
		},
		[]string{"policy"},
	)
)

// ResultOK, ResultRepaired, ResultNotFound and ResultUnrecoverable label
// the "result" dimension of DecodeTotal.
const (
	ResultOK            = "ok"
	ResultRepaired      = "repaired"
	ResultNotFound      = "not_found"
	ResultUnrecoverable = "unrecoverable"
)
