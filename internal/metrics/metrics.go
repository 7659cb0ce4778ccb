// Package metrics provides Prometheus metrics for documentation resolution
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/inheritdoc/pkg/types"
)

// Outcome labels for ResolutionsTotal
const (
	OutcomeFound          = "found"
	OutcomeNotFound       = string(types.ReasonNotFound)
	OutcomeNotInheritable = string(types.ReasonNotInheritable)
)

// Metrics holds all Prometheus metrics for the resolver and indexer
type Metrics struct {
	registry *prometheus.Registry

	// Resolution metrics
	ResolutionsTotal *prometheus.CounterVec
	WalkLength       prometheus.Histogram
	ElementsResolved prometheus.Counter
	DiagnosticsTotal *prometheus.CounterVec

	// Indexing metrics
	IndexRunsTotal   *prometheus.CounterVec
	IndexDuration    prometheus.Histogram
	FilesIndexed     prometheus.Counter
	SymbolsExtracted prometheus.Counter
}

// New creates all metrics on a private registry, so several instances can
// coexist in one process
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.ResolutionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inheritdoc_resolutions_total",
			Help: "Total number of inheritance searches by outcome",
		},
		[]string{"outcome"},
	)

	m.WalkLength = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inheritdoc_walk_length",
			Help:    "Number of ancestors inspected per inheritance search",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	m.ElementsResolved = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "inheritdoc_elements_resolved_total",
			Help: "Total number of elements whose documentation was computed",
		},
	)

	m.DiagnosticsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inheritdoc_diagnostics_total",
			Help: "Total number of unsatisfied inheritance markers by reason",
		},
		[]string{"reason"},
	)

	m.IndexRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inheritdoc_index_runs_total",
			Help: "Total number of indexing runs",
		},
		[]string{"status"},
	)

	m.IndexDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inheritdoc_index_duration_seconds",
			Help:    "Duration of indexing runs in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	m.FilesIndexed = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "inheritdoc_files_indexed_total",
			Help: "Total number of files parsed",
		},
	)

	m.SymbolsExtracted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "inheritdoc_symbols_extracted_total",
			Help: "Total number of symbols extracted",
		},
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordResolution records one search result
func (m *Metrics) RecordResolution(res types.SearchResult) {
	outcome := OutcomeFound
	if !res.Found {
		outcome = string(res.Reason)
		if outcome == "" {
			outcome = OutcomeNotFound
		}
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
	m.WalkLength.Observe(float64(res.Inspected))
}

// RecordDiagnostic records an unsatisfied marker
func (m *Metrics) RecordDiagnostic(reason types.DiagnosticReason) {
	m.DiagnosticsTotal.WithLabelValues(string(reason)).Inc()
}

// RecordIndex records an indexing run
func (m *Metrics) RecordIndex(files, symbols int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.IndexRunsTotal.WithLabelValues(status).Inc()
	m.IndexDuration.Observe(duration.Seconds())
	m.FilesIndexed.Add(float64(files))
	m.SymbolsExtracted.Add(float64(symbols))
}

// Handler returns an HTTP handler exposing the metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics and /health on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","service":"inheritdoc"}`))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
