package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fallbackReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus_market",
		Subsystem: "store",
		Name:      "fallback_reads_total",
		Help:      "Reads answered from the bundled dataset, by operation.",
	}, []string{"operation"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus_market",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Listing query cache lookups, by result.",
	}, []string{"result"})
)
