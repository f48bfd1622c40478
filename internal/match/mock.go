package match

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	RecordMatchFunc         func(m *Match) error
	GetMatchFunc            func(matchID string) (*Match, error)
	GetAllMatchesFunc       func() ([]*Match, error)
	GetMatchesForPlayerFunc func(playerID string) ([]*Match, error)
	ClearMatchFunc          func(matchID string) error
	ClearFunc               func()

	// Call records
	RecordMatchCalls []*Match
	ClearMatchCalls  []string
	ClearCalls       int
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) RecordMatch(match *Match) error {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, match)
	m.mu.Unlock()
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) GetAllMatches() ([]*Match, error) {
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetMatchesForPlayer(playerID string) ([]*Match, error) {
	if m.GetMatchesForPlayerFunc != nil {
		return m.GetMatchesForPlayerFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) ClearMatch(matchID string) error {
	m.mu.Lock()
	m.ClearMatchCalls = append(m.ClearMatchCalls, matchID)
	m.mu.Unlock()
	if m.ClearMatchFunc != nil {
		return m.ClearMatchFunc(matchID)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
