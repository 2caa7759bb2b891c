// Package metrics exports Prometheus counters for record activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer counts record creations, persistence failures and analysis
// outcomes. It satisfies the record service's observer hook.
type Observer struct {
	created  *prometheus.CounterVec
	failed   *prometheus.CounterVec
	analyses *prometheus.CounterVec
}

// New registers the counters on the given registry; a nil registry uses the
// default one.
func New(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Observer{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advocase_records_created_total",
			Help: "Records created, by domain collection.",
		}, []string{"collection"}),
		failed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advocase_persist_failures_total",
			Help: "Snapshot persistence failures, by domain collection.",
		}, []string{"collection"}),
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advocase_iep_analyses_total",
			Help: "IEP analysis runs, by outcome.",
		}, []string{"outcome"}),
	}
}

func (o *Observer) RecordCreated(collection string) {
	o.created.WithLabelValues(collection).Inc()
}

func (o *Observer) PersistFailed(collection string) {
	o.failed.WithLabelValues(collection).Inc()
}

func (o *Observer) AnalysisFinished(outcome string) {
	o.analyses.WithLabelValues(outcome).Inc()
}

// Handler serves the metrics endpoint for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
