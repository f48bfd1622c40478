package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	matchesRecorded   int
	invalidScores     int
	conflictsDetected int
	playerSearches    int
	courtSearches     int
	bookingsCreated   int
	searchDurations   []float64
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		searchDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncInvalidScores() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidScores++
}

func (m *Mock) IncConflictsDetected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflictsDetected++
}

func (m *Mock) IncPlayerSearches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playerSearches++
}

func (m *Mock) IncCourtSearches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courtSearches++
}

func (m *Mock) IncBookingsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingsCreated++
}

func (m *Mock) ObserveSearchDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchDurations = append(m.searchDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the number of recorded matches observed by the mock.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// InvalidScores returns the number of rejected scores observed by the mock.
func (m *Mock) InvalidScores() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidScores
}

// ConflictsDetected returns the number of conflicts observed by the mock.
func (m *Mock) ConflictsDetected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conflictsDetected
}

// PlayerSearches returns the number of player searches observed by the mock.
func (m *Mock) PlayerSearches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playerSearches
}

// CourtSearches returns the number of court searches observed by the mock.
func (m *Mock) CourtSearches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.courtSearches
}

// BookingsCreated returns the number of bookings observed by the mock.
func (m *Mock) BookingsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingsCreated
}
