package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewCounter registers the single counter vec every component increments,
// keyed by the "result" label (gallery_loads_total, app_requests_total, ...).
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "general_counters",
		},
		[]string{"result"})
}
