package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Metrics = (*Service)(nil)

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_matches_recorded_total",
			Help: "The total number of completed matches recorded.",
		}),
		InvalidScores: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_invalid_scores_total",
			Help: "The total number of match scores rejected by validation.",
		}),
		ConflictsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_availability_conflicts_total",
			Help: "The total number of time block conflicts detected.",
		}),
		PlayerSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_player_searches_total",
			Help: "The total number of player searches performed.",
		}),
		CourtSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_court_searches_total",
			Help: "The total number of court searches performed.",
		}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tennis_court_bookings_created_total",
			Help: "The total number of court bookings successfully created.",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tennis_search_duration_seconds",
			Help:    "The duration of individual search requests.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tennis_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.InvalidScores,
		s.ConflictsDetected,
		s.PlayerSearches,
		s.CourtSearches,
		s.BookingsCreated,
		s.SearchDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncInvalidScores() {
	s.InvalidScores.Inc()
}

func (s *Service) IncConflictsDetected() {
	s.ConflictsDetected.Inc()
}

func (s *Service) IncPlayerSearches() {
	s.PlayerSearches.Inc()
}

func (s *Service) IncCourtSearches() {
	s.CourtSearches.Inc()
}

func (s *Service) IncBookingsCreated() {
	s.BookingsCreated.Inc()
}

func (s *Service) ObserveSearchDuration(duration float64) {
	s.SearchDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
