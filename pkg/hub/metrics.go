package hub

import "github.com/prometheus/client_golang/prometheus"

// Skip reasons recorded on the hub_deliveries_skipped_total counter.
const (
	skipDead         = "dead"
	skipFiltered     = "filtered"
	skipUnsubscribed = "unsubscribed"
)

type metrics struct {
	sends         prometheus.Counter
	deliveries    prometheus.Counter
	skips         *prometheus.CounterVec
	subscriptions prometheus.Gauge
	keepAlive     prometheus.Gauge
	swept         prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		sends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hub_sends_total",
			Help: "Number of Send calls that passed validation.",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hub_deliveries_total",
			Help: "Number of handler invocations.",
		}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hub_deliveries_skipped_total",
			Help: "Snapshot entries skipped without invoking the handler.",
		}, []string{"reason"}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hub_subscriptions",
			Help: "Currently registered subscriptions.",
		}),
		keepAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hub_keepalive_entries",
			Help: "Strong keep-alive references currently held by the hub.",
		}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hub_swept_subscriptions_total",
			Help: "Dead subscriptions removed by the opportunistic sweep.",
		}),
	}
	reg.MustRegister(m.sends, m.deliveries, m.skips, m.subscriptions, m.keepAlive, m.swept)
	return m
}

func (m *metrics) skip(reason string) {
	if m == nil {
		return
	}
	m.skips.WithLabelValues(reason).Inc()
}
