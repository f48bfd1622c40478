package players

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new player Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const playerColumns = `id, name, email, bio, skill_level, play_style, preferred_surface, availability_json,
	latitude, longitude, city, state,
	elo, matches_played, matches_won, matches_lost, win_rate, current_streak, best_streak,
	created_at, updated_at`

// UpsertPlayer inserts a new player or updates an existing one's profile.
// Stat columns are intentionally left alone on conflict; they belong to match completion.
func (s *store) UpsertPlayer(p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertPlayerLocked(p)
}

// UpsertPlayers inserts or updates a batch of players in a single transaction.
func (s *store) UpsertPlayers(ps []*Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, p := range ps {
		if err := upsertPlayerTx(tx, p); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) upsertPlayerLocked(p *Player) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := upsertPlayerTx(tx, p); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertPlayerTx(tx execer, p *Player) error {
	availabilityJSON, err := json.Marshal(p.Availability)
	if err != nil {
		return err
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err = tx.Exec(`
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			bio = excluded.bio,
			skill_level = excluded.skill_level,
			play_style = excluded.play_style,
			preferred_surface = excluded.preferred_surface,
			availability_json = excluded.availability_json,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			city = excluded.city,
			state = excluded.state,
			updated_at = excluded.updated_at;
	`,
		p.ID, p.Name, p.Email, p.Bio, string(p.SkillLevel), string(p.PlayStyle), string(p.PreferredSurface), string(availabilityJSON),
		p.Location.Latitude, p.Location.Longitude, p.Location.City, p.Location.State,
		p.Stats.Elo, p.Stats.MatchesPlayed, p.Stats.MatchesWon, p.Stats.MatchesLost, p.Stats.WinRate, p.Stats.CurrentStreak, p.Stats.BestStreak,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	return err
}

// GetPlayer retrieves a single player by id.
func (s *store) GetPlayer(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = ?`, playerID)
	p, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player %q not found", playerID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return p, nil
}

// GetPlayers retrieves the given players; missing ids are silently skipped.
func (s *store) GetPlayers(playerIDs []string) ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return []*Player{}, nil
	}

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	rows, err := s.db.Query(`SELECT `+playerColumns+` FROM players WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPlayers(rows), nil
}

// GetAllPlayers retrieves every player, sorted by name.
func (s *store) GetAllPlayers() ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + playerColumns + ` FROM players ORDER BY name`)
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectPlayers(rows), nil
}

// GetLeaderboard retrieves every player sorted by rating, best first.
func (s *store) GetLeaderboard() ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + playerColumns + ` FROM players ORDER BY elo DESC, matches_won DESC, name`)
	if err != nil {
		log.Error("Failed to query leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectPlayers(rows), nil
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM players"); err != nil {
		log.Error("Failed to clear players table", "error", err)
	}
}

func collectPlayers(rows *sql.Rows) []*Player {
	var result []*Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		result = append(result, p)
	}
	return result
}

// scanPlayer is a helper to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var email, bio, playStyle, preferredSurface, availabilityJSON, city, state sql.NullString
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&p.ID, &p.Name, &email, &bio, (*string)(&p.SkillLevel), &playStyle, &preferredSurface, &availabilityJSON,
		&p.Location.Latitude, &p.Location.Longitude, &city, &state,
		&p.Stats.Elo, &p.Stats.MatchesPlayed, &p.Stats.MatchesWon, &p.Stats.MatchesLost, &p.Stats.WinRate, &p.Stats.CurrentStreak, &p.Stats.BestStreak,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Email = email.String
	p.Bio = bio.String
	p.PlayStyle = PlayStyle(playStyle.String)
	p.PreferredSurface = Surface(preferredSurface.String)
	p.Location.City = city.String
	p.Location.State = state.String
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)

	if availabilityJSON.Valid && availabilityJSON.String != "" {
		if err := json.Unmarshal([]byte(availabilityJSON.String), &p.Availability); err != nil {
			log.Error("Failed to unmarshal availability_json", "error", err, "playerID", p.ID)
		}
	}

	return &p, nil
}
