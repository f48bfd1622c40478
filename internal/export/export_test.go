package export_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennismeet/tennismeet/internal/court"
	"github.com/tennismeet/tennismeet/internal/export"
	"github.com/tennismeet/tennismeet/internal/match"
	"github.com/tennismeet/tennismeet/internal/players"
)

func samplePlayer(id, name string) *players.Player {
	p := &players.Player{
		ID:         id,
		Name:       name,
		Email:      strings.ToLower(name) + "@example.com",
		SkillLevel: players.SkillIntermediate,
		PlayStyle:  players.StyleBaseline,
		Location:   players.Location{City: "Austin", State: "TX"},
	}
	p.Stats.Elo = 1350
	return p
}

func sampleMatch(id string) *match.Match {
	return &match.Match{
		ID:        id,
		Player1ID: "p1",
		Player2ID: "p2",
		Status:    match.StatusCompleted,
		Surface:   players.SurfaceClay,
		Location:  match.Location{Name: "Riverside Tennis Center", City: "Austin"},
		Sets: []match.Set{
			{Player1Games: 6, Player2Games: 4},
			{Player1Games: 7, Player2Games: 6, Tiebreak: &match.Tiebreak{Player1Points: 7, Player2Points: 5}},
		},
		WinnerID:    "p1",
		CompletedAt: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		CreatedAt:   time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
	}
}

func sampleCourt(id, name string) *court.Court {
	return &court.Court{
		ID:           id,
		Name:         name,
		Location:     court.Location{City: "Austin"},
		Surface:      players.SurfaceHard,
		Availability: court.AvailabilityPublic,
		Rating:       court.Rating{AverageRating: 4.5, RatingCount: 12},
	}
}

func sampleBackup() *export.Data {
	return export.NewBackup(
		[]*players.Player{samplePlayer("p1", "Alice"), samplePlayer("p2", "Bob")},
		[]*match.Match{sampleMatch("m1")},
		[]*court.Court{sampleCourt("c1", "Riverside Tennis Center")},
	)
}

func TestJSONRoundTrip(t *testing.T) {
	backup := sampleBackup()

	raw, err := export.ToJSON(backup)
	require.NoError(t, err)

	restored, err := export.FromJSON(raw)
	require.NoError(t, err)

	assert.Equal(t, export.Version, restored.Version)
	assert.Equal(t, backup.ExportDate, restored.ExportDate)
	require.Len(t, restored.Players, 2)
	require.Len(t, restored.Matches, 1)
	require.Len(t, restored.Courts, 1)
	assert.Equal(t, "Alice", restored.Players[0].Name)
	require.NotNil(t, restored.Matches[0].Sets[1].Tiebreak)
	assert.Equal(t, 5, restored.Matches[0].Sets[1].Tiebreak.Player2Points)
}

func TestFromJSONRejectsBadInput(t *testing.T) {
	_, err := export.FromJSON([]byte("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")

	_, err = export.FromJSON([]byte(`{"players": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid export file format")
}

func TestSnapshotRoundTrip(t *testing.T) {
	backup := sampleBackup()

	raw, err := export.Encode(backup)
	require.NoError(t, err)

	restored, err := export.Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, backup.Version, restored.Version)
	require.Len(t, restored.Players, 2)
	assert.Equal(t, 1350, restored.Players[1].Stats.Elo)
	require.Len(t, restored.Matches, 1)
	assert.Equal(t, "p1", restored.Matches[0].WinnerID)

	_, err = export.Decode([]byte{0xc1})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid, errs := export.Validate(sampleBackup())
	assert.True(t, valid)
	assert.Empty(t, errs)

	valid, errs = export.Validate(&export.Data{})
	assert.False(t, valid)
	assert.Len(t, errs, 5)

	valid, errs = export.Validate(&export.Data{
		Version:    "1.0.0",
		ExportDate: "2026-03-14T00:00:00Z",
		Players:    []*players.Player{},
		Courts:     []*court.Court{},
	})
	assert.False(t, valid)
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid matches data", errs[0])
}

func TestMerge(t *testing.T) {
	existing := &export.Data{
		Version:    export.Version,
		ExportDate: "2026-03-01T00:00:00Z",
		Players:    []*players.Player{samplePlayer("p1", "Alice")},
		Matches:    []*match.Match{sampleMatch("m1")},
		Courts:     []*court.Court{sampleCourt("c1", "Riverside Tennis Center")},
	}
	imported := &export.Data{
		Version:    export.Version,
		ExportDate: "2026-03-10T00:00:00Z",
		Players:    []*players.Player{samplePlayer("p1", "Alice Again"), samplePlayer("p3", "Carol")},
		Matches:    []*match.Match{sampleMatch("m2")},
		Courts:     []*court.Court{sampleCourt("c1", "Renamed Court")},
	}

	t.Run("replace takes the import wholesale", func(t *testing.T) {
		merged := export.Merge(existing, imported, export.MergeReplace)
		require.Len(t, merged.Players, 2)
		assert.Equal(t, "Alice Again", merged.Players[0].Name)
		assert.Equal(t, "Renamed Court", merged.Courts[0].Name)
	})

	t.Run("append keeps duplicates", func(t *testing.T) {
		merged := export.Merge(existing, imported, export.MergeAppend)
		assert.Len(t, merged.Players, 3)
		assert.Len(t, merged.Matches, 2)
		assert.Len(t, merged.Courts, 2)
	})

	t.Run("skip-duplicates keeps existing entries on ID collision", func(t *testing.T) {
		merged := export.Merge(existing, imported, export.MergeSkipDuplicates)
		require.Len(t, merged.Players, 2)
		assert.Equal(t, "Alice", merged.Players[0].Name)
		assert.Equal(t, "Carol", merged.Players[1].Name)
		assert.Len(t, merged.Matches, 2)
		require.Len(t, merged.Courts, 1)
		assert.Equal(t, "Riverside Tennis Center", merged.Courts[0].Name)
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		export.Merge(existing, imported, export.MergeSkipDuplicates)
		assert.Len(t, existing.Players, 1)
		assert.Equal(t, "Alice", existing.Players[0].Name)
	})
}

func TestPlayersToCSV(t *testing.T) {
	csv, err := export.PlayersToCSV([]*players.Player{samplePlayer("p1", "Alice")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Email,Skill Level,Play Style,Elo,City,State", lines[0])
	assert.Equal(t, "p1,Alice,alice@example.com,intermediate,baseline,1350,Austin,TX", lines[1])
}

func TestMatchesToCSV(t *testing.T) {
	csv, err := export.MatchesToCSV([]*match.Match{sampleMatch("m1")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"6-4, 7-6(5)"`)
	assert.Contains(t, lines[1], "Riverside Tennis Center")
	assert.Contains(t, lines[1], "2026-03-14T18:30:00Z")
}

func TestMatchesToCSVScheduled(t *testing.T) {
	m := &match.Match{ID: "m2", Player1ID: "p1", Player2ID: "p2", Status: match.StatusScheduled}
	csv, err := export.MatchesToCSV([]*match.Match{m})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "m2,p1,p2,,,,,scheduled,", lines[1])
}

func TestCourtsToCSV(t *testing.T) {
	csv, err := export.CourtsToCSV([]*court.Court{sampleCourt("c1", "Riverside Tennis Center")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "c1,Riverside Tennis Center,Austin,hard,false,public,4.5", lines[1])
}

func TestFromStores(t *testing.T) {
	playerStore := &players.MockStore{
		GetAllPlayersFunc: func() ([]*players.Player, error) {
			return []*players.Player{samplePlayer("p1", "Alice")}, nil
		},
	}
	matchStore := &match.MockStore{
		GetAllMatchesFunc: func() ([]*match.Match, error) {
			return []*match.Match{sampleMatch("m1")}, nil
		},
	}
	courtStore := &court.MockStore{
		GetAllCourtsFunc: func() ([]*court.Court, error) {
			return []*court.Court{sampleCourt("c1", "Riverside Tennis Center")}, nil
		},
	}

	backup, err := export.FromStores(playerStore, matchStore, courtStore)
	require.NoError(t, err)

	assert.Equal(t, export.Version, backup.Version)
	assert.NotEmpty(t, backup.ExportDate)
	require.Len(t, backup.Players, 1)
	assert.Equal(t, "p1", backup.Players[0].ID)
	require.Len(t, backup.Matches, 1)
	assert.Equal(t, "m1", backup.Matches[0].ID)
	require.Len(t, backup.Courts, 1)
	assert.Equal(t, "c1", backup.Courts[0].ID)
}

func TestFromStoresPropagatesErrors(t *testing.T) {
	boom := errors.New("database locked")
	ok := &players.MockStore{
		GetAllPlayersFunc: func() ([]*players.Player, error) { return nil, nil },
	}
	okMatches := &match.MockStore{
		GetAllMatchesFunc: func() ([]*match.Match, error) { return nil, nil },
	}

	t.Run("players", func(t *testing.T) {
		failing := &players.MockStore{
			GetAllPlayersFunc: func() ([]*players.Player, error) { return nil, boom },
		}
		_, err := export.FromStores(failing, &match.MockStore{}, &court.MockStore{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load players")
	})

	t.Run("matches", func(t *testing.T) {
		failing := &match.MockStore{
			GetAllMatchesFunc: func() ([]*match.Match, error) { return nil, boom },
		}
		_, err := export.FromStores(ok, failing, &court.MockStore{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load matches")
	})

	t.Run("courts", func(t *testing.T) {
		failing := &court.MockStore{
			GetAllCourtsFunc: func() ([]*court.Court, error) { return nil, boom },
		}
		_, err := export.FromStores(ok, okMatches, failing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load courts")
	})
}
