package receipt

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/zombor/receipt-splitter/internal/parsing"
)

var _ = Describe("Metrics", func() {
	var (
		registry *prometheus.Registry
		metrics  *Metrics
	)

	BeforeEach(func() {
		registry = prometheus.NewRegistry()
		metrics = NewMetrics(registry)
	})

	It("counts parses by the source of the items", func() {
		metrics.observeParse([]parsing.Item{{Name: "Kebab", Source: parsing.SourcePattern}})
		metrics.observeParse([]parsing.Item{{Name: "Tea", Source: parsing.SourceSalvage}})
		metrics.observeParse(nil)

		Expect(testutil.ToFloat64(metrics.parses.WithLabelValues("pattern"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.parses.WithLabelValues("salvage"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.parses.WithLabelValues("none"))).To(Equal(1.0))
		Expect(testutil.CollectAndCount(metrics.parsedItems)).To(Equal(1))
	})

	It("counts scans by result", func() {
		metrics.observeScan("ok", 2*time.Second)
		metrics.observeScan("error", time.Second)

		Expect(testutil.ToFloat64(metrics.scans.WithLabelValues("ok"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(metrics.scans.WithLabelValues("error"))).To(Equal(1.0))
	})

	It("counts created sessions", func() {
		metrics.sessionCreated()
		metrics.sessionCreated()
		Expect(testutil.ToFloat64(metrics.sessions)).To(Equal(2.0))
	})

	It("registers every collector", func() {
		metrics.sessionCreated()
		metrics.observeParse(nil)
		metrics.observeScan("ok", time.Second)

		families, err := registry.Gather()
		Expect(err).NotTo(HaveOccurred())
		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		Expect(names).To(ConsistOf(
			"receipt_splitter_parses_total",
			"receipt_splitter_parsed_items",
			"receipt_splitter_scans_total",
			"receipt_splitter_scan_duration_seconds",
			"receipt_splitter_sessions_created_total",
		))
	})

	It("ignores observations on a nil receiver", func() {
		var m *Metrics
		Expect(func() {
			m.observeParse(nil)
			m.observeScan("ok", time.Second)
			m.sessionCreated()
		}).NotTo(Panic())
	})
})
