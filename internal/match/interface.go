package match

// Store defines the interface for interacting with recorded matches.
// Recording a completed match is the only path that touches player stat
// columns; the rating movement is applied atomically with the insert.
type Store interface {
	RecordMatch(m *Match) error
	GetMatch(matchID string) (*Match, error)
	GetAllMatches() ([]*Match, error)
	GetMatchesForPlayer(playerID string) ([]*Match, error)
	ClearMatch(matchID string) error
	Clear()
}
