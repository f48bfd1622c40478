package players

// Store defines the interface for interacting with the player roster.
// Stat columns are written only by the match store when a match completes.
type Store interface {
	UpsertPlayer(p *Player) error
	UpsertPlayers(ps []*Player) error
	GetPlayer(playerID string) (*Player, error)
	GetPlayers(playerIDs []string) ([]*Player, error)
	GetAllPlayers() ([]*Player, error)
	GetLeaderboard() ([]*Player, error)
	IsKnownPlayer(playerID string) bool
	Clear()
}
