package elo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tennismeet/tennismeet/internal/elo"
)

func TestCalculateChange(t *testing.T) {
	t.Run("equal ratings move both sides by the same magnitude", func(t *testing.T) {
		result := elo.CalculateChange(1500, 1500, 30, 30)

		assert.Greater(t, result.Winner.Change, 0)
		assert.Less(t, result.Winner.Change, 20)
		assert.Less(t, result.Loser.Change, 0)
		assert.Greater(t, result.Loser.Change, -20)

		// Equal K-factors, so gains and losses mirror within rounding.
		assert.LessOrEqual(t, abs(result.Winner.Change+result.Loser.Change), 1)
	})

	t.Run("underdog win gains more than favorite win", func(t *testing.T) {
		underdog := elo.CalculateChange(1400, 1800, 30, 30)
		favorite := elo.CalculateChange(1800, 1400, 30, 30)

		assert.Greater(t, underdog.Winner.Change, 20)
		assert.Less(t, underdog.Loser.Change, -20)
		assert.Less(t, favorite.Winner.Change, 16)
		assert.Greater(t, favorite.Winner.Change, 0)
		assert.Greater(t, underdog.Winner.Change, favorite.Winner.Change)
	})

	t.Run("new players are more volatile", func(t *testing.T) {
		newPlayer := elo.CalculateChange(1500, 1500, 10, 30)
		experienced := elo.CalculateChange(1500, 1500, 100, 100)

		assert.Greater(t, newPlayer.Winner.Change, experienced.Winner.Change)
	})

	t.Run("top players are more stable", func(t *testing.T) {
		top := elo.CalculateChange(2500, 2400, 100, 100)
		regular := elo.CalculateChange(1500, 1400, 100, 100)

		assert.Less(t, abs(top.Winner.Change), abs(regular.Winner.Change))
	})

	t.Run("extreme rating gap barely moves either side", func(t *testing.T) {
		result := elo.CalculateChange(2200, 1000, 50, 50)

		assert.Less(t, result.Winner.Change, 2)
		assert.Greater(t, result.Loser.Change, -2)
	})

	t.Run("new rating is old rating plus change", func(t *testing.T) {
		result := elo.CalculateChange(1620, 1480, 45, 12)

		assert.Equal(t, result.Winner.OldRating+result.Winner.Change, result.Winner.NewRating)
		assert.Equal(t, result.Loser.OldRating+result.Loser.Change, result.Loser.NewRating)
	})

	t.Run("total rating is roughly conserved for equal K", func(t *testing.T) {
		result := elo.CalculateChange(1600, 1400, 50, 50)

		totalBefore := 1600 + 1400
		totalAfter := result.Winner.NewRating + result.Loser.NewRating
		assert.Less(t, abs(totalAfter-totalBefore), 5)
	})
}

func TestWinProbability(t *testing.T) {
	t.Run("equal ratings give even odds", func(t *testing.T) {
		assert.InDelta(t, 0.5, elo.WinProbability(1500, 1500), 0.001)
	})

	t.Run("200 point edge gives roughly three in four", func(t *testing.T) {
		assert.InDelta(t, 0.76, elo.WinProbability(1700, 1500), 0.05)
	})

	t.Run("400 point edge gives roughly nine in ten", func(t *testing.T) {
		assert.InDelta(t, 0.91, elo.WinProbability(1900, 1500), 0.05)
	})

	t.Run("probabilities are complementary", func(t *testing.T) {
		pairs := [][2]int{{1600, 1400}, {1000, 2400}, {1500, 1500}, {2750, 980}}
		for _, pair := range pairs {
			sum := elo.WinProbability(pair[0], pair[1]) + elo.WinProbability(pair[1], pair[0])
			assert.InDelta(t, 1.0, sum, 1e-9)
		}
	})
}

func TestDescription(t *testing.T) {
	cases := map[int]string{
		900:  "Novice",
		1100: "Beginner",
		1300: "Beginner+",
		1500: "Intermediate",
		1700: "Intermediate+",
		1900: "Advanced",
		2100: "Expert",
		2300: "Professional",
		2500: "Elite Professional",
	}
	for rating, want := range cases {
		assert.Equal(t, want, elo.Description(rating), "rating %d", rating)
	}

	// Bands are closed on the lower bound.
	assert.Equal(t, "Advanced", elo.Description(1800))
	assert.Equal(t, "Intermediate+", elo.Description(1799))
}

func TestValidateRating(t *testing.T) {
	assert.Equal(t, 1500, elo.ValidateRating(1500))
	assert.Equal(t, 100, elo.ValidateRating(50))
	assert.Equal(t, 100, elo.ValidateRating(-100))
	assert.Equal(t, 3000, elo.ValidateRating(3500))
	assert.Equal(t, 1500, elo.ValidateRating(1500.4))
	assert.Equal(t, 1501, elo.ValidateRating(1500.6))
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "+15", elo.FormatChange(15))
	assert.Equal(t, "-15", elo.FormatChange(-15))
	assert.Equal(t, "0", elo.FormatChange(0))
}

func TestColorForChange(t *testing.T) {
	assert.Equal(t, elo.ColorPositive, elo.ColorForChange(8))
	assert.Equal(t, elo.ColorNegative, elo.ColorForChange(-8))
	assert.Equal(t, elo.ColorNeutral, elo.ColorForChange(0))
}

func TestDifferenceDescription(t *testing.T) {
	assert.Equal(t, "Evenly matched", elo.DifferenceDescription(30))
	assert.Equal(t, "Slight advantage", elo.DifferenceDescription(-60))
	assert.Equal(t, "Clear advantage", elo.DifferenceDescription(150))
	assert.Equal(t, "Strong advantage", elo.DifferenceDescription(250))
	assert.Equal(t, "Overwhelming advantage", elo.DifferenceDescription(400))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
