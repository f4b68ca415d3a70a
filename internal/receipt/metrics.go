package receipt

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zombor/receipt-splitter/internal/parsing"
)

const metricsNamespace = "receipt_splitter"

// Metrics holds the service counters. A nil *Metrics records nothing.
type Metrics struct {
	parses       *prometheus.CounterVec
	parsedItems  prometheus.Histogram
	scans        *prometheus.CounterVec
	scanDuration prometheus.Histogram
	sessions     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "parses_total",
			Help:      "Receipt texts parsed, by the source of the resulting items.",
		}, []string{"source"}),
		parsedItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "parsed_items",
			Help:      "Number of items recovered per receipt.",
			Buckets:   prometheus.LinearBuckets(0, 1, parsing.MaxItems+1),
		}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scans_total",
			Help:      "Receipt images sent to the scanner, by result.",
		}, []string{"result"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent waiting on the scanner.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created.",
		}),
	}
	reg.MustRegister(m.parses, m.parsedItems, m.scans, m.scanDuration, m.sessions)
	return m
}

func (m *Metrics) observeParse(items []parsing.Item) {
	if m == nil {
		return
	}
	source := "none"
	if len(items) > 0 {
		source = string(items[0].Source)
	}
	m.parses.WithLabelValues(source).Inc()
	m.parsedItems.Observe(float64(len(items)))
}

func (m *Metrics) observeScan(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(result).Inc()
	m.scanDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) sessionCreated() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}
