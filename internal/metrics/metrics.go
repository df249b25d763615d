package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_provider_requests_total",
		Help: "Requests sent to the market data provider, by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketlens_provider_request_seconds",
		Help:    "Latency of market data provider requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	ScanRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_scan_runs_total",
		Help: "Scheduled watchlist scans, by job",
	}, []string{"job"})

	ScanFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_scan_symbol_failures_total",
		Help: "Per-symbol failures during scheduled scans, by job",
	}, []string{"job"})
)
