package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds the Prometheus collectors for the application.
type Service struct {
	MatchesRecorded    prometheus.Counter
	InvalidScores      prometheus.Counter
	ConflictsDetected  prometheus.Counter
	PlayerSearches     prometheus.Counter
	CourtSearches      prometheus.Counter
	BookingsCreated    prometheus.Counter
	SearchDuration     prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
