// Package metrics provides Prometheus metrics for the gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector on a private registry.
type Metrics struct {
	ChatSendsTotal       *prometheus.CounterVec
	ChatChunksTotal      prometheus.Counter
	ImageRequestsTotal   *prometheus.CounterVec
	ImageDuration        *prometheus.HistogramVec
	ProjectsCreatedTotal prometheus.Counter
	QuoteSelectionsTotal prometheus.Counter
	ChatConnections      prometheus.Gauge

	registry *prometheus.Registry
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ChatSendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "renohub_chat_sends_total",
				Help: "Chat sends by outcome.",
			},
			[]string{"status"},
		),
		ChatChunksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "renohub_chat_chunks_total",
				Help: "Streamed reply chunks applied to transcripts.",
			},
		),
		ImageRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "renohub_image_requests_total",
				Help: "Image model requests by operation and outcome.",
			},
			[]string{"op", "status"},
		),
		ImageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "renohub_image_duration_seconds",
				Help:    "Image model round-trip time.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
			},
			[]string{"op"},
		),
		ProjectsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "renohub_projects_created_total",
				Help: "Projects created since start.",
			},
		),
		QuoteSelectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "renohub_quote_selections_total",
				Help: "Vendor quote selections.",
			},
		),
		ChatConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "renohub_chat_connections",
				Help: "Open chat websocket connections.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.ChatSendsTotal,
		m.ChatChunksTotal,
		m.ImageRequestsTotal,
		m.ImageDuration,
		m.ProjectsCreatedTotal,
		m.QuoteSelectionsTotal,
		m.ChatConnections,
	)
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ChatSend(status string) {
	m.ChatSendsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ChatChunk() { m.ChatChunksTotal.Inc() }

func (m *Metrics) ImageRequest(op, status string, elapsed time.Duration) {
	m.ImageRequestsTotal.WithLabelValues(op, status).Inc()
	m.ImageDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) ProjectCreated() { m.ProjectsCreatedTotal.Inc() }

func (m *Metrics) QuoteSelected() { m.QuoteSelectionsTotal.Inc() }

func (m *Metrics) ChatConnected()    { m.ChatConnections.Inc() }
func (m *Metrics) ChatDisconnected() { m.ChatConnections.Dec() }

// WatchRenderingCache exports the rendering cache counters. stats is read
// on every scrape.
func (m *Metrics) WatchRenderingCache(stats func() (hits, misses, originReads uint64)) {
	counter := func(name, help string, pick func(h, mi, o uint64) uint64) prometheus.CounterFunc {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{Name: name, Help: help}, func() float64 {
			return float64(pick(stats()))
		})
	}
	m.registry.MustRegister(
		counter("renohub_rendering_cache_hits_total", "Rendering cache hits.",
			func(h, _, _ uint64) uint64 { return h }),
		counter("renohub_rendering_cache_misses_total", "Rendering cache misses.",
			func(_, mi, _ uint64) uint64 { return mi }),
		counter("renohub_rendering_origin_reads_total", "Rendering reads that reached the bucket.",
			func(_, _, o uint64) uint64 { return o }),
	)
}
