// Package metrics holds the Prometheus instruments shared by the HTTP server
// and the worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "haushalt_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "haushalt_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SummariesComposed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "haushalt_summaries_composed_total",
		Help: "Period summaries served.",
	})

	BalancesSnapshotted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "haushalt_balances_snapshotted_total",
		Help: "Account balance snapshots written by the worker.",
	})

	TransactionsExported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "haushalt_transactions_exported_total",
		Help: "Transactions appended to the export spreadsheet.",
	})

	ExportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "haushalt_export_errors_total",
		Help: "Failed export attempts.",
	})

	IntegrityWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "haushalt_integrity_warnings_total",
		Help: "Ledger rows skipped or normalized due to bad data.",
	})
)
