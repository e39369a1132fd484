package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// --- Inbound (server) metrics ---
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_errors_total",
			Help: "Total number of HTTP requests resulting in client or server errors.",
		},
		[]string{"method", "route", "code"},
	)

	// --- Outbound (client) metrics ---
	HTTPClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_requests_total",
			Help: "Total number of outbound HTTP requests.",
		},
		[]string{"method", "code"},
	)
	HTTPClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Latency of outbound HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)
	HTTPClientErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_request_errors_total",
			Help: "Total number of outbound page fetches that failed before a response arrived.",
		},
		[]string{"reason"},
	)

	// --- Analysis metrics ---
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_debug_analyses_total",
			Help: "Total number of page analyses by outcome.",
		},
		[]string{"outcome"},
	)
	StructuredDataBlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_debug_structured_data_blocks_total",
			Help: "Total number of JSON-LD blocks found, by validity.",
		},
		[]string{"validity"},
	)
	ImageCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meta_debug_image_candidates_total",
			Help: "Total number of image candidates collected, by source.",
		},
		[]string{"source"},
	)

	// --- Runtime metrics ---
	CPUCount = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "process_cpu_count",
			Help: "Number of CPU cores available.",
		},
		func() float64 { return float64(runtime.NumCPU()) },
	)
)

const (
	OutcomeOK              = "ok"
	OutcomeFetchError      = "fetch_error"
	OutcomeExtractionError = "extraction_error"
)

func MetricsRegister() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestErrorsTotal,
		HTTPClientRequestsTotal,
		HTTPClientRequestDuration,
		HTTPClientErrorsTotal,
		AnalysesTotal,
		StructuredDataBlocksTotal,
		ImageCandidatesTotal,
		CPUCount,
	)

	return reg
}
