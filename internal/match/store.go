package match

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tennismeet/tennismeet/internal/metrics"
	"github.com/tennismeet/tennismeet/internal/players"
)

// New creates a new match Store backed by the given database.
func New(db *sql.DB, metrics metrics.Metrics) Store {
	return &store{
		db:      db,
		metrics: metrics,
	}
}

const matchColumns = `id, player1_id, player2_id, status, surface, location_name, location_city,
	sets_json, winner_id, elo_changes_json, notes, completed_at, created_at, updated_at`

// RecordMatch persists a match. For a completed match with rating changes the
// players' stat columns are updated in the same transaction, so a failure
// leaves neither the match nor the ratings half-applied.
func (s *store) RecordMatch(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.HasScore() {
		if v := ValidateScore(m.Sets); !v.Valid {
			s.metrics.IncInvalidScores()
			return fmt.Errorf("invalid match score: %s", v.Error)
		}
	}

	setsJSON, err := json.Marshal(m.Sets)
	if err != nil {
		return fmt.Errorf("failed to marshal sets: %w", err)
	}
	var eloChangesJSON []byte
	if m.EloChanges != nil {
		eloChangesJSON, err = json.Marshal(m.EloChanges)
		if err != nil {
			return fmt.Errorf("failed to marshal elo changes: %w", err)
		}
	}

	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	var completedAt any
	if !m.CompletedAt.IsZero() {
		completedAt = m.CompletedAt.Unix()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			surface = excluded.surface,
			location_name = excluded.location_name,
			location_city = excluded.location_city,
			sets_json = excluded.sets_json,
			winner_id = excluded.winner_id,
			elo_changes_json = excluded.elo_changes_json,
			notes = excluded.notes,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at;
	`,
		m.ID, m.Player1ID, m.Player2ID, string(m.Status), string(m.Surface), m.Location.Name, m.Location.City,
		string(setsJSON), m.WinnerID, nullableString(eloChangesJSON), m.Notes, completedAt, m.CreatedAt.Unix(), m.UpdatedAt.Unix(),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
	}

	if m.Status == StatusCompleted && m.EloChanges != nil {
		loserID := m.Player2ID
		if m.WinnerID == m.Player2ID {
			loserID = m.Player1ID
		}
		winnerElo, loserElo := m.EloChanges.Player1NewElo, m.EloChanges.Player2NewElo
		if m.WinnerID == m.Player2ID {
			winnerElo, loserElo = m.EloChanges.Player2NewElo, m.EloChanges.Player1NewElo
		}

		if err := applyResultTx(tx, m.WinnerID, winnerElo, true, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update winner %s: %w", m.WinnerID, err)
		}
		if err := applyResultTx(tx, loserID, loserElo, false, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update loser %s: %w", loserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.metrics.IncMatchesRecorded()
	log.Info("Recorded match", "matchID", m.ID, "status", m.Status, "winner", m.WinnerID)
	return nil
}

// applyResultTx folds one completed result into a player's stat columns.
// A win extends the current streak and may raise the best; a loss resets it.
func applyResultTx(tx *sql.Tx, playerID string, newElo int, won bool, now time.Time) error {
	var played, wins, losses, currentStreak, bestStreak int
	err := tx.QueryRow(`
		SELECT matches_played, matches_won, matches_lost, current_streak, best_streak
		FROM players WHERE id = ?`, playerID).
		Scan(&played, &wins, &losses, &currentStreak, &bestStreak)
	if err != nil {
		return err
	}

	played++
	if won {
		wins++
		if currentStreak > 0 {
			currentStreak++
		} else {
			currentStreak = 1
		}
		if currentStreak > bestStreak {
			bestStreak = currentStreak
		}
	} else {
		losses++
		currentStreak = 0
	}
	winRate := math.Round(float64(wins)/float64(played)*1000) / 10

	_, err = tx.Exec(`
		UPDATE players
		SET elo = ?, matches_played = ?, matches_won = ?, matches_lost = ?,
			win_rate = ?, current_streak = ?, best_streak = ?, updated_at = ?
		WHERE id = ?`,
		newElo, played, wins, losses, winRate, currentStreak, bestStreak, now.Unix(), playerID)
	return err
}

// GetMatch retrieves a single match by id.
func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, matchID)
	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match %q not found", matchID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return m, nil
}

// GetAllMatches retrieves every match, newest first.
func (s *store) GetAllMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY created_at DESC, id`)
	if err != nil {
		log.Error("Failed to query all matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectMatches(rows), nil
}

// GetMatchesForPlayer retrieves every match a player took part in, newest first.
func (s *store) GetMatchesForPlayer(playerID string) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+matchColumns+` FROM matches
		WHERE player1_id = ? OR player2_id = ?
		ORDER BY created_at DESC, id`, playerID, playerID)
	if err != nil {
		log.Error("Failed to query matches for player", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	return collectMatches(rows), nil
}

// ClearMatch deletes a single match. Player stats are not rolled back; the
// recorded rating history stays authoritative.
func (s *store) ClearMatch(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM matches WHERE id = ?`, matchID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %q not found", matchID)
	}
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		log.Error("Failed to clear matches table", "error", err)
	}
}

func collectMatches(rows *sql.Rows) []*Match {
	var result []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		result = append(result, m)
	}
	return result
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var surface, locationName, locationCity, setsJSON, winnerID, eloChangesJSON, notes sql.NullString
	var completedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&m.ID, &m.Player1ID, &m.Player2ID, (*string)(&m.Status), &surface, &locationName, &locationCity,
		&setsJSON, &winnerID, &eloChangesJSON, &notes, &completedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Surface = players.Surface(surface.String)
	m.Location = Location{Name: locationName.String, City: locationCity.String}
	m.WinnerID = winnerID.String
	m.Notes = notes.String
	if completedAt.Valid {
		m.CompletedAt = time.Unix(completedAt.Int64, 0)
	}
	m.CreatedAt = time.Unix(createdAt, 0)
	m.UpdatedAt = time.Unix(updatedAt, 0)

	if setsJSON.Valid && setsJSON.String != "" {
		if err := json.Unmarshal([]byte(setsJSON.String), &m.Sets); err != nil {
			log.Error("Failed to unmarshal sets_json", "error", err, "matchID", m.ID)
		}
	}
	if eloChangesJSON.Valid && eloChangesJSON.String != "" {
		m.EloChanges = &EloChanges{}
		if err := json.Unmarshal([]byte(eloChangesJSON.String), m.EloChanges); err != nil {
			log.Error("Failed to unmarshal elo_changes_json", "error", err, "matchID", m.ID)
		}
	}

	return &m, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
