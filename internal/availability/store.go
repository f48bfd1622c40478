package availability

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new time block Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const blockColumns = `id, player_id, date, start_time, end_time, is_recurring, recurring_json, created_at, updated_at`

// PutBlock inserts a block or replaces an existing one by id.
func (s *store) PutBlock(b *TimeBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recurringJSON []byte
	if b.Recurring != nil {
		var err error
		recurringJSON, err = json.Marshal(b.Recurring)
		if err != nil {
			return fmt.Errorf("failed to marshal recurring pattern: %w", err)
		}
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO time_blocks (`+blockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			player_id = excluded.player_id,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			is_recurring = excluded.is_recurring,
			recurring_json = excluded.recurring_json,
			updated_at = excluded.updated_at;
	`,
		b.ID, b.PlayerID, b.Date, b.StartTime, b.EndTime, b.IsRecurring, nullableJSON(recurringJSON),
		b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to put time block %s: %w", b.ID, err)
	}
	return nil
}

// GetBlock retrieves a single block by id.
func (s *store) GetBlock(blockID string) (*TimeBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+blockColumns+` FROM time_blocks WHERE id = ?`, blockID)
	b, err := scanBlock(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("time block %q not found", blockID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return b, nil
}

// DeleteBlock removes a block; deleting an unknown id is an error.
func (s *store) DeleteBlock(blockID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM time_blocks WHERE id = ?`, blockID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("time block %q not found", blockID)
	}
	return nil
}

// GetPlayerBlocks retrieves every block of one player, sorted by date then
// start time.
func (s *store) GetPlayerBlocks(playerID string) ([]*TimeBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+blockColumns+` FROM time_blocks
		WHERE player_id = ?
		ORDER BY date, start_time`, playerID)
	if err != nil {
		log.Error("Failed to query player time blocks", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	return collectBlocks(rows), nil
}

// GetBlocksInRange retrieves a player's blocks with dates between dateFrom and
// dateTo inclusive. The lexical ordering of "YYYY-MM-DD" matches date order.
func (s *store) GetBlocksInRange(playerID, dateFrom, dateTo string) ([]*TimeBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT `+blockColumns+` FROM time_blocks
		WHERE player_id = ? AND date >= ? AND date <= ?
		ORDER BY date, start_time`, playerID, dateFrom, dateTo)
	if err != nil {
		log.Error("Failed to query time blocks in range", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	return collectBlocks(rows), nil
}

// GetAllBlocks retrieves every stored block.
func (s *store) GetAllBlocks() ([]*TimeBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + blockColumns + ` FROM time_blocks ORDER BY date, start_time`)
	if err != nil {
		log.Error("Failed to query all time blocks", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectBlocks(rows), nil
}

// SeedBlocks replaces the table contents with the given blocks.
func (s *store) SeedBlocks(blocks []*TimeBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM time_blocks`); err != nil {
		tx.Rollback()
		return err
	}
	for _, b := range blocks {
		var recurringJSON []byte
		if b.Recurring != nil {
			recurringJSON, err = json.Marshal(b.Recurring)
			if err != nil {
				tx.Rollback()
				return err
			}
		}
		now := time.Now()
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
		_, err = tx.Exec(`
			INSERT INTO time_blocks (`+blockColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.PlayerID, b.Date, b.StartTime, b.EndTime, b.IsRecurring, nullableJSON(recurringJSON),
			b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to seed time block %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM time_blocks"); err != nil {
		log.Error("Failed to clear time blocks table", "error", err)
	}
}

func collectBlocks(rows *sql.Rows) []*TimeBlock {
	var result []*TimeBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			log.Error("Failed to scan time block row", "error", err)
			continue
		}
		result = append(result, b)
	}
	return result
}

func scanBlock(scanner interface{ Scan(...any) error }) (*TimeBlock, error) {
	var b TimeBlock
	var recurringJSON sql.NullString
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&b.ID, &b.PlayerID, &b.Date, &b.StartTime, &b.EndTime, &b.IsRecurring, &recurringJSON,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = time.Unix(createdAt, 0)
	b.UpdatedAt = time.Unix(updatedAt, 0)

	if recurringJSON.Valid && recurringJSON.String != "" {
		b.Recurring = &RecurringPattern{}
		if err := json.Unmarshal([]byte(recurringJSON.String), b.Recurring); err != nil {
			log.Error("Failed to unmarshal recurring_json", "error", err, "blockID", b.ID)
		}
	}

	return &b, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
