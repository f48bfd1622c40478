package players

import (
	"database/sql"
	"sync"
	"time"
)

// SkillLevel is one of the four ordered tiers a player self-reports.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillProfessional SkillLevel = "professional"
)

// skillOrder gives each tier its position for proximity scoring.
var skillOrder = map[SkillLevel]int{
	SkillBeginner:     0,
	SkillIntermediate: 1,
	SkillAdvanced:     2,
	SkillProfessional: 3,
}

// Index returns the ordinal position of the tier, or -1 for an unknown value.
func (s SkillLevel) Index() int {
	if i, ok := skillOrder[s]; ok {
		return i
	}
	return -1
}

// Levels returns the tiers in ascending order.
func Levels() []SkillLevel {
	return []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillProfessional}
}

// PlayStyle tags how a player approaches points.
type PlayStyle string

const (
	StyleAggressive     PlayStyle = "aggressive"
	StyleDefensive      PlayStyle = "defensive"
	StyleAllCourt       PlayStyle = "all-court"
	StyleServeAndVolley PlayStyle = "serve-and-volley"
	StyleBaseline       PlayStyle = "baseline"
)

// Surface is a court surface. SurfaceAny is only valid as a preference.
type Surface string

const (
	SurfaceHard   Surface = "hard"
	SurfaceClay   Surface = "clay"
	SurfaceGrass  Surface = "grass"
	SurfaceCarpet Surface = "carpet"
	SurfaceAny    Surface = "any"
)

// Surfaces returns the playable surfaces (excluding the "any" preference).
func Surfaces() []Surface {
	return []Surface{SurfaceHard, SurfaceClay, SurfaceGrass, SurfaceCarpet}
}

// Location is a geographic point with an optional city/state label.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
}

// PlayerStats carries a player's rating and match history aggregates.
// Stats are mutated only through match completion.
type PlayerStats struct {
	Elo           int     `json:"elo"`
	MatchesPlayed int     `json:"matches_played"`
	MatchesWon    int     `json:"matches_won"`
	MatchesLost   int     `json:"matches_lost"`
	WinRate       float64 `json:"win_rate"`
	CurrentStreak int     `json:"current_streak"`
	BestStreak    int     `json:"best_streak"`
}

// Player is a registered user of the app.
type Player struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Bio              string      `json:"bio,omitempty"`
	SkillLevel       SkillLevel  `json:"skill_level"`
	PlayStyle        PlayStyle   `json:"play_style,omitempty"`
	PreferredSurface Surface     `json:"preferred_surface,omitempty"`
	Availability     []string    `json:"availability,omitempty"`
	Location         Location    `json:"location"`
	Stats            PlayerStats `json:"stats"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// store handles all database operations for players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
