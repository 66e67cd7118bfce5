package router

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks search outcomes and the routine per-tier call failures that
// never surface as errors.
type Metrics struct {
	searchDuration *prometheus.HistogramVec
	tierCalls      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "swapquote",
				Subsystem: "router",
				Name:      "search_duration_seconds",
				Help:      "Duration of a best-trade search.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode", "outcome"},
		),
		tierCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swapquote",
				Subsystem: "router",
				Name:      "tier_calls_total",
				Help:      "Individual fee-tier quote attempts by result.",
			},
			[]string{"variant", "result"},
		),
	}
	reg.MustRegister(m.searchDuration, m.tierCalls)
	return m
}

// Search outcome label values.
const (
	outcomeDirect    = "direct"
	outcomeBridged   = "bridged"
	outcomeNotFound  = "not_found"
	outcomeCancelled = "cancelled"
)

// Tier call result label values.
const (
	tierCallOK     = "ok"
	tierCallFailed = "failed"
)
