// Package export backs up and restores the full dataset. The JSON envelope
// is the interchange format; msgpack is the compact variant for snapshots
// that never leave the machine. CSV covers one entity type per file for
// spreadsheet use.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tennismeet/tennismeet/internal/court"
	"github.com/tennismeet/tennismeet/internal/match"
	"github.com/tennismeet/tennismeet/internal/players"
)

// Version identifies the envelope layout. Bump on breaking changes.
const Version = "1.0.0"

// Data is the backup envelope. ExportDate is RFC 3339.
type Data struct {
	Version    string            `json:"version" msgpack:"version"`
	ExportDate string            `json:"export_date" msgpack:"export_date"`
	Players    []*players.Player `json:"players" msgpack:"players"`
	Matches    []*match.Match    `json:"matches" msgpack:"matches"`
	Courts     []*court.Court    `json:"courts" msgpack:"courts"`
}

// MergeStrategy controls how an import combines with existing data.
type MergeStrategy string

const (
	// MergeReplace discards existing data in favor of the import.
	MergeReplace MergeStrategy = "replace"
	// MergeAppend keeps everything from both sides, duplicates included.
	MergeAppend MergeStrategy = "merge"
	// MergeSkipDuplicates keeps existing data and adds only imported
	// entries whose IDs are not already present.
	MergeSkipDuplicates MergeStrategy = "skip-duplicates"
)

// NewBackup wraps the current dataset in a versioned envelope.
func NewBackup(allPlayers []*players.Player, matches []*match.Match, courts []*court.Court) *Data {
	return &Data{
		Version:    Version,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Players:    allPlayers,
		Matches:    matches,
		Courts:     courts,
	}
}

// FromStores assembles a backup envelope from everything the stores hold.
func FromStores(playerStore players.Store, matchStore match.Store, courtStore court.Store) (*Data, error) {
	allPlayers, err := playerStore.GetAllPlayers()
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	allMatches, err := matchStore.GetAllMatches()
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	allCourts, err := courtStore.GetAllCourts()
	if err != nil {
		return nil, fmt.Errorf("failed to load courts: %w", err)
	}
	return NewBackup(allPlayers, allMatches, allCourts), nil
}

// ToJSON renders the envelope as indented JSON.
func ToJSON(data *Data) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export data: %w", err)
	}
	return out, nil
}

// FromJSON parses an envelope and checks the required header fields.
func FromJSON(raw []byte) (*Data, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if data.Version == "" || data.ExportDate == "" {
		return nil, fmt.Errorf("invalid export file format")
	}
	return &data, nil
}

// Encode renders the envelope as a msgpack snapshot.
func Encode(data *Data) ([]byte, error) {
	out, err := msgpack.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return out, nil
}

// Decode parses a msgpack snapshot and checks the header fields.
func Decode(raw []byte) (*Data, error) {
	var data Data
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if data.Version == "" || data.ExportDate == "" {
		return nil, fmt.Errorf("invalid snapshot format")
	}
	return &data, nil
}

// Validate reports every problem with an imported envelope. Nil slices are
// rejected so a truncated file cannot silently wipe a dataset on replace.
func Validate(data *Data) (bool, []string) {
	var errs []string
	if data.Version == "" {
		errs = append(errs, "missing version information")
	}
	if data.ExportDate == "" {
		errs = append(errs, "missing export date")
	}
	if data.Players == nil {
		errs = append(errs, "invalid players data")
	}
	if data.Matches == nil {
		errs = append(errs, "invalid matches data")
	}
	if data.Courts == nil {
		errs = append(errs, "invalid courts data")
	}
	return len(errs) == 0, errs
}

// Merge combines an imported envelope with existing data under the given
// strategy. The result carries a fresh export date and the existing version.
func Merge(existing, imported *Data, strategy MergeStrategy) *Data {
	result := &Data{
		Version:    existing.Version,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
	}

	switch strategy {
	case MergeReplace:
		result.Players = imported.Players
		result.Matches = imported.Matches
		result.Courts = imported.Courts
	case MergeAppend:
		result.Players = append(append([]*players.Player{}, existing.Players...), imported.Players...)
		result.Matches = append(append([]*match.Match{}, existing.Matches...), imported.Matches...)
		result.Courts = append(append([]*court.Court{}, existing.Courts...), imported.Courts...)
	default:
		result.Players = append([]*players.Player{}, existing.Players...)
		result.Matches = append([]*match.Match{}, existing.Matches...)
		result.Courts = append([]*court.Court{}, existing.Courts...)

		seenPlayers := idSet(existing.Players, func(p *players.Player) string { return p.ID })
		for _, p := range imported.Players {
			if !seenPlayers[p.ID] {
				result.Players = append(result.Players, p)
			}
		}
		seenMatches := idSet(existing.Matches, func(m *match.Match) string { return m.ID })
		for _, m := range imported.Matches {
			if !seenMatches[m.ID] {
				result.Matches = append(result.Matches, m)
			}
		}
		seenCourts := idSet(existing.Courts, func(c *court.Court) string { return c.ID })
		for _, c := range imported.Courts {
			if !seenCourts[c.ID] {
				result.Courts = append(result.Courts, c)
			}
		}
	}

	return result
}

func idSet[T any](items []T, id func(T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[id(item)] = true
	}
	return set
}

// PlayersToCSV renders players as CSV with a fixed header row.
func PlayersToCSV(list []*players.Player) (string, error) {
	rows := [][]string{{"ID", "Name", "Email", "Skill Level", "Play Style", "Elo", "City", "State"}}
	for _, p := range list {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			p.Email,
			string(p.SkillLevel),
			string(p.PlayStyle),
			strconv.Itoa(p.Stats.Elo),
			p.Location.City,
			p.Location.State,
		})
	}
	return writeCSV(rows)
}

// MatchesToCSV renders matches as CSV with a fixed header row. The score
// column is the formatted set line of completed matches and empty otherwise.
func MatchesToCSV(list []*match.Match) (string, error) {
	rows := [][]string{{"ID", "Player 1", "Player 2", "Winner", "Score", "Surface", "Location", "Status", "Completed At"}}
	for _, m := range list {
		var score, completed string
		if m.HasScore() {
			score = match.FormatScore(m.Sets)
		}
		if !m.CompletedAt.IsZero() {
			completed = m.CompletedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			m.ID,
			m.Player1ID,
			m.Player2ID,
			m.WinnerID,
			score,
			string(m.Surface),
			m.Location.Name,
			string(m.Status),
			completed,
		})
	}
	return writeCSV(rows)
}

// CourtsToCSV renders courts as CSV with a fixed header row.
func CourtsToCSV(list []*court.Court) (string, error) {
	rows := [][]string{{"ID", "Name", "City", "Surface", "Indoor", "Availability", "Rating"}}
	for _, c := range list {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.Location.City,
			string(c.Surface),
			strconv.FormatBool(c.IsIndoor),
			string(c.Availability),
			strconv.FormatFloat(c.Rating.AverageRating, 'f', 1, 64),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.String(), nil
}
