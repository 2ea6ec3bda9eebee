// Package metrics collects and exposes Prometheus metrics for rendering and
// PDF export.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Collector implements usecase.Metrics.
type Collector struct {
	exports     *prometheus.CounterVec
	pdfDuration *prometheus.HistogramVec
	renders     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_pdf_exports_total",
			Help: "PDF exports by path and result.",
		}, []string{"path", "result"}),
		pdfDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_pdf_duration_seconds",
			Help:    "Time spent printing a PDF.",
			Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 30},
		}, []string{"path"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_renders_total",
			Help: "HTML renders by template variant.",
		}, []string{"variant"}),
	}

	reg.MustRegister(c.exports, c.pdfDuration, c.renders)
	return c
}

// RecordExport counts one export attempt. Only successful prints are timed.
func (c *Collector) RecordExport(path string, err error, d time.Duration) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	c.exports.WithLabelValues(path, result).Inc()
	if err == nil {
		c.pdfDuration.WithLabelValues(path).Observe(d.Seconds())
	}
}

func (c *Collector) RecordRender(variant string) {
	c.renders.WithLabelValues(variant).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
