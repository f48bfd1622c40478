package match

import (
	"math"
	"sort"
	"time"

	"github.com/tennismeet/tennismeet/internal/players"
)

// Filter returns the matches passing every set field of the filters.
func Filter(matches []*Match, filters Filters) []*Match {
	result := make([]*Match, 0, len(matches))
	for _, m := range matches {
		if filters.PlayerID != "" && !m.Involves(filters.PlayerID) {
			continue
		}
		if filters.Status != "" && m.Status != filters.Status {
			continue
		}
		if filters.Surface != "" && m.Surface != filters.Surface {
			continue
		}
		// Date bounds are inclusive and only apply once a completion date exists.
		if !filters.DateFrom.IsZero() && !m.CompletedAt.IsZero() && m.CompletedAt.Before(filters.DateFrom) {
			continue
		}
		if !filters.DateTo.IsZero() && !m.CompletedAt.IsZero() && m.CompletedAt.After(filters.DateTo) {
			continue
		}
		if filters.Result != "" && filters.Result != ResultAll && filters.PlayerID != "" {
			if !m.HasScore() {
				continue
			}
			isWinner := m.WinnerID == filters.PlayerID
			if filters.Result == ResultWon && !isWinner {
				continue
			}
			if filters.Result == ResultLost && isWinner {
				continue
			}
		}
		result = append(result, m)
	}
	return result
}

// CalculateStatistics aggregates a player's completed matches: overall and
// per-surface records, average rating movement, recent form (last 10, newest
// first), and streaks. An empty history yields an explicit zero-valued object.
func CalculateStatistics(matches []*Match, playerID string) Statistics {
	var playerMatches []*Match
	for _, m := range matches {
		if m.Involves(playerID) && m.Status == StatusCompleted && m.HasScore() {
			playerMatches = append(playerMatches, m)
		}
	}

	stats := Statistics{
		BySurface:  emptySurfaceStats(),
		RecentForm: []string{},
		StreakType: StreakNone,
	}
	if len(playerMatches) == 0 {
		return stats
	}

	// Newest first for recent form.
	sorted := make([]*Match, len(playerMatches))
	copy(sorted, playerMatches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	surfaceRecord := make(map[players.Surface]*SurfaceStats)
	for _, s := range players.Surfaces() {
		surfaceRecord[s] = &SurfaceStats{}
	}

	var results []string
	var totalEloChange int

	for _, m := range sorted {
		isWinner := m.WinnerID == playerID
		if isWinner {
			stats.Wins++
			results = append(results, "W")
		} else {
			stats.Losses++
			results = append(results, "L")
		}

		if rec, ok := surfaceRecord[m.Surface]; ok {
			if isWinner {
				rec.Wins++
			} else {
				rec.Losses++
			}
		}

		if m.EloChanges != nil {
			if m.Player1ID == playerID {
				totalEloChange += m.EloChanges.Player1Change
			} else {
				totalEloChange += m.EloChanges.Player2Change
			}
		}
	}

	stats.TotalMatches = len(sorted)
	stats.WinRate = round1(float64(stats.Wins) / float64(stats.TotalMatches) * 100)
	stats.AverageEloChange = round1(float64(totalEloChange) / float64(stats.TotalMatches))

	for surface, rec := range surfaceRecord {
		played := rec.Wins + rec.Losses
		winRate := 0.0
		if played > 0 {
			winRate = round1(float64(rec.Wins) / float64(played) * 100)
		}
		stats.BySurface[surface] = SurfaceStats{Wins: rec.Wins, Losses: rec.Losses, WinRate: winRate}
	}

	// Streaks scan oldest to newest; the current streak is whichever run is
	// still alive at the most recent match.
	winRun, lossRun := 0, 0
	for i := len(results) - 1; i >= 0; i-- {
		if results[i] == "W" {
			winRun++
			lossRun = 0
			if winRun > stats.LongestWinStreak {
				stats.LongestWinStreak = winRun
			}
		} else {
			lossRun++
			winRun = 0
			if lossRun > stats.LongestLossStreak {
				stats.LongestLossStreak = lossRun
			}
		}
	}
	if winRun > 0 {
		stats.CurrentStreak = winRun
		stats.StreakType = StreakWin
	} else if lossRun > 0 {
		stats.CurrentStreak = lossRun
		stats.StreakType = StreakLoss
	}

	if len(results) > 10 {
		results = results[:10]
	}
	stats.RecentForm = results

	return stats
}

func emptySurfaceStats() map[players.Surface]SurfaceStats {
	m := make(map[players.Surface]SurfaceStats, 4)
	for _, s := range players.Surfaces() {
		m[s] = SurfaceStats{}
	}
	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Sort returns a sorted copy of the matches. The sort is stable; matches
// without a completion date fall back to their creation date.
func Sort(matches []*Match, sortBy SortField, order SortOrder) []*Match {
	sorted := make([]*Match, len(matches))
	copy(sorted, matches)

	sort.SliceStable(sorted, func(i, j int) bool {
		var cmp int
		a, b := sorted[i], sorted[j]

		switch sortBy {
		case SortByLocation:
			cmp = compareStrings(a.Location.City, b.Location.City)
		case SortBySurface:
			cmp = compareStrings(surfaceOrDefault(a), surfaceOrDefault(b))
		default: // SortByDate
			da, db := matchDate(a), matchDate(b)
			switch {
			case da.Before(db):
				cmp = -1
			case da.After(db):
				cmp = 1
			}
		}

		if order == OrderAsc {
			return cmp < 0
		}
		return cmp > 0
	})

	return sorted
}

func matchDate(m *Match) time.Time {
	if !m.CompletedAt.IsZero() {
		return m.CompletedAt
	}
	return m.CreatedAt
}

func surfaceOrDefault(m *Match) string {
	if m.Surface == "" {
		return string(players.SurfaceHard)
	}
	return string(m.Surface)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
