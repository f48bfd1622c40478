package match

import (
	"database/sql"
	"sync"
	"time"

	"github.com/tennismeet/tennismeet/internal/metrics"
	"github.com/tennismeet/tennismeet/internal/players"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Tiebreak holds the points of a set decided at 6-6.
type Tiebreak struct {
	Player1Points int `json:"player1_points"`
	Player2Points int `json:"player2_points"`
}

// Set is one set of a match, always from player 1's perspective.
type Set struct {
	Player1Games int       `json:"player1_games"`
	Player2Games int       `json:"player2_games"`
	Tiebreak     *Tiebreak `json:"tiebreak,omitempty"`
}

// EloChanges records the rating movement applied when a match completed.
// Once written it is immutable history; the store never updates it.
type EloChanges struct {
	Player1Change int `json:"player1_change"`
	Player2Change int `json:"player2_change"`
	Player1NewElo int `json:"player1_new_elo"`
	Player2NewElo int `json:"player2_new_elo"`
}

// Location names where a match was played.
type Location struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// Match is a head-to-head match between two players. A score is present only
// when the status is completed.
type Match struct {
	ID          string          `json:"id"`
	Player1ID   string          `json:"player1_id"`
	Player2ID   string          `json:"player2_id"`
	Status      Status          `json:"status"`
	Surface     players.Surface `json:"surface,omitempty"`
	Location    Location        `json:"location"`
	Sets        []Set           `json:"sets,omitempty"`
	WinnerID    string          `json:"winner_id,omitempty"`
	EloChanges  *EloChanges     `json:"elo_changes,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CompletedAt time.Time       `json:"completed_at,omitzero"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HasScore reports whether a score has been recorded.
func (m *Match) HasScore() bool {
	return len(m.Sets) > 0
}

// Involves reports whether the given player played in this match.
func (m *Match) Involves(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// ScoreValidation is the outcome of checking a score against tennis rules.
type ScoreValidation struct {
	Valid bool
	Error string
}

// ResultFilter selects matches by outcome relative to Filters.PlayerID.
type ResultFilter string

const (
	ResultAll  ResultFilter = "all"
	ResultWon  ResultFilter = "won"
	ResultLost ResultFilter = "lost"
)

// Filters narrows a match list; zero-valued fields are ignored.
// All set fields must match (conjunctive).
type Filters struct {
	PlayerID string
	Status   Status
	Surface  players.Surface
	DateFrom time.Time
	DateTo   time.Time
	Result   ResultFilter
}

// SurfaceStats aggregates a player's record on one surface.
type SurfaceStats struct {
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

// StreakType labels the player's current run of results.
type StreakType string

const (
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
	StreakNone StreakType = "none"
)

// Statistics is the aggregate view of a player's completed matches.
type Statistics struct {
	TotalMatches      int                              `json:"total_matches"`
	Wins              int                              `json:"wins"`
	Losses            int                              `json:"losses"`
	WinRate           float64                          `json:"win_rate"`
	AverageEloChange  float64                          `json:"average_elo_change"`
	BySurface         map[players.Surface]SurfaceStats `json:"by_surface"`
	RecentForm        []string                         `json:"recent_form"`
	LongestWinStreak  int                              `json:"longest_win_streak"`
	LongestLossStreak int                              `json:"longest_loss_streak"`
	CurrentStreak     int                              `json:"current_streak"`
	StreakType        StreakType                       `json:"streak_type"`
}

// SortField selects the comparison key for SortMatches.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByLocation SortField = "location"
	SortBySurface  SortField = "surface"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// store handles all database operations for matches.
type store struct {
	db      *sql.DB
	metrics metrics.Metrics
	mu      sync.RWMutex
}
