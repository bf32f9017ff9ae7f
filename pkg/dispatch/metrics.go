package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/localemux/pkg/pathpattern"
)

// PrometheusObserver exports registry events as Prometheus metrics:
//
//	<namespace>_dispatch_total{tier}         counter, tier="default" when nothing matched
//	<namespace>_registered_patterns{tier}    gauge
type PrometheusObserver struct {
	dispatched *prometheus.CounterVec
	registered *prometheus.GaugeVec
}

// NewPrometheusObserver creates the collectors and registers them with reg.
// It returns the registration error, e.g. when the metrics already exist.
func NewPrometheusObserver(reg prometheus.Registerer, namespace string) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Dispatched paths by the tier that matched.",
		}, []string{"tier"}),
		registered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_patterns",
			Help:      "Registered patterns per tier.",
		}, []string{"tier"}),
	}

	for _, c := range []prometheus.Collector{o.dispatched, o.registered} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *PrometheusObserver) Registered(tier pathpattern.Tier, delta int) {
	o.registered.WithLabelValues(tier.String()).Add(float64(delta))
}

func (o *PrometheusObserver) Dispatched(tier pathpattern.Tier, matched bool) {
	label := "default"
	if matched {
		label = tier.String()
	}
	o.dispatched.WithLabelValues(label).Inc()
}
