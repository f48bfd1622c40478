package players

import "sync"

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayerFunc   func(p *Player) error
	UpsertPlayersFunc  func(ps []*Player) error
	GetPlayerFunc      func(playerID string) (*Player, error)
	GetPlayersFunc     func(playerIDs []string) ([]*Player, error)
	GetAllPlayersFunc  func() ([]*Player, error)
	GetLeaderboardFunc func() ([]*Player, error)
	IsKnownPlayerFunc  func(playerID string) bool
	ClearFunc          func()

	// Call records
	UpsertPlayerCalls  []*Player
	UpsertPlayersCalls [][]*Player
	ClearCalls         int
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) UpsertPlayer(p *Player) error {
	m.mu.Lock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, p)
	m.mu.Unlock()
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(p)
	}
	return nil
}

func (m *MockStore) UpsertPlayers(ps []*Player) error {
	m.mu.Lock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, ps)
	m.mu.Unlock()
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(ps)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]*Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return nil, nil
}

func (m *MockStore) GetAllPlayers() ([]*Player, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetLeaderboard() ([]*Player, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc()
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
