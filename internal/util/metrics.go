package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dataset_load_duration_seconds",
		Help:    "Time spent loading the four input tables",
		Buckets: prometheus.DefBuckets,
	})

	DatasetLoadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dataset_load_failures_total",
		Help: "Total number of failed dataset loads",
	})

	DatasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dataset_rows",
		Help: "Number of rows loaded per table",
	}, []string{"table"})

	ReportRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_runs_total",
		Help: "Total number of section renders",
	}, []string{"section"})

	ReportRunLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "report_run_latency_seconds",
		Help:    "Latency of filter and aggregation runs",
		Buckets: prometheus.DefBuckets,
	})

	FilteredRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filtered_tracking_rows",
		Help:    "Tracking rows remaining after filters are applied",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exports_total",
		Help: "Total number of CSV exports",
	}, []string{"kind"})

	ExportEventsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "export_events_failed_total",
		Help: "Total number of export events that could not be published",
	})

	ExportAuditsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "export_audits_recorded_total",
		Help: "Total number of export audit rows written",
	})

	SelectionStoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "selection_store_errors_total",
		Help: "Total number of selection store failures",
	}, []string{"op"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
