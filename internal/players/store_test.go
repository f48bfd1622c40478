package players_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennismeet/tennismeet/internal/database"
	"github.com/tennismeet/tennismeet/internal/players"
)

func setupStore(t *testing.T) (players.Store, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	return players.New(db), teardown
}

func newPlayer(id, name string) *players.Player {
	p := &players.Player{
		ID:               id,
		Name:             name,
		Email:            id + "@example.com",
		Bio:              "Weekend warrior",
		SkillLevel:       players.SkillIntermediate,
		PlayStyle:        players.StyleBaseline,
		PreferredSurface: players.SurfaceHard,
		Availability:     []string{"weekday-evening", "weekend-morning"},
		Location: players.Location{
			Latitude:  30.2672,
			Longitude: -97.7431,
			City:      "Austin",
			State:     "TX",
		},
	}
	p.Stats.Elo = 1200
	return p
}

func TestUpsertAndGetPlayer(t *testing.T) {
	store, teardown := setupStore(t)
	defer teardown()

	p := newPlayer("p1", "Alice")
	require.NoError(t, store.UpsertPlayer(p))

	got, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "p1@example.com", got.Email)
	assert.Equal(t, players.SkillIntermediate, got.SkillLevel)
	assert.Equal(t, players.StyleBaseline, got.PlayStyle)
	assert.Equal(t, players.SurfaceHard, got.PreferredSurface)
	assert.Equal(t, []string{"weekday-evening", "weekend-morning"}, got.Availability)
	assert.Equal(t, "Austin", got.Location.City)
	assert.InDelta(t, 30.2672, got.Location.Latitude, 1e-9)
	assert.Equal(t, 1200, got.Stats.Elo)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUpsertPreservesStats(t *testing.T) {
	store, teardown := setupStore(t)
	defer teardown()

	p := newPlayer("p1", "Alice")
	p.Stats.Elo = 1350
	p.Stats.MatchesPlayed = 12
	p.Stats.MatchesWon = 8
	require.NoError(t, store.UpsertPlayer(p))

	update := newPlayer("p1", "Alice Updated")
	update.Stats.Elo = 100
	require.NoError(t, store.UpsertPlayer(update))

	got, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", got.Name)
	assert.Equal(t, 1350, got.Stats.Elo)
	assert.Equal(t, 12, got.Stats.MatchesPlayed)
	assert.Equal(t, 8, got.Stats.MatchesWon)
}

func TestGetPlayerNotFound(t *testing.T) {
	store, teardown := setupStore(t)
	defer teardown()

	_, err := store.GetPlayer("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetPlayers(t *testing.T) {
	store, teardown := setupStore(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]*players.Player{
		newPlayer("p1", "Alice"),
		newPlayer("p2", "Bob"),
		newPlayer("p3", "Carol"),
	}))

	got, err := store.GetPlayers([]string{"p1", "p3", "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	empty, err := store.GetPlayers(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetAllPlayersSortedByName(t *testing.T) {
	store, teardown := setupStore(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]*players.Player{
		newPlayer("p1", "Carol"),
		newPlayer("p2", "Alice"),
		newPlayer("p3", "Bob"),
	}))

	got, err := store.GetAllPlayers()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "Bob", got[1].Name)
	assert.Equal(t, "Carol", got[2].Name)
}

func TestGetLeaderboard(t *testing.T) {
	store, teardown := setupStore(t)
	defer teardown()

	a := newPlayer("p1", "Alice")
	a.Stats.Elo = 1500
	b := newPlayer("p2", "Bob")
	b.Stats.Elo = 1650
	c := newPlayer("p3", "Carol")
	c.Stats.Elo = 1500
	c.Stats.MatchesWon = 5
	require.NoError(t, store.UpsertPlayers([]*players.Player{a, b, c}))

	board, err := store.GetLeaderboard()
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "Bob", board[0].Name)
	// equal rating, more wins first
	assert.Equal(t, "Carol", board[1].Name)
	assert.Equal(t, "Alice", board[2].Name)
}

func TestIsKnownPlayerAndClear(t *testing.T) {
	store, teardown := setupStore(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayer(newPlayer("p1", "Alice")))
	assert.True(t, store.IsKnownPlayer("p1"))
	assert.False(t, store.IsKnownPlayer("p2"))

	store.Clear()
	assert.False(t, store.IsKnownPlayer("p1"))
}
