package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts gate decisions and store retries.
type Metrics struct {
	decisions *prometheus.CounterVec
	retries   *prometheus.CounterVec
}

// NewMetrics registers the gate's collectors with the registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "access_decisions_total",
			Help: "Gate decisions by outcome and route class.",
		}, []string{"outcome", "class"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "access_store_retries_total",
			Help: "Single-shot retries after transient store failures, by stage.",
		}, []string{"stage"}),
	}
}
