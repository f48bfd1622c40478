// Package elo implements the rating engine: an Elo update with an adaptive
// K-factor, plus the presentation helpers the UI layer needs.
//
// The update follows the standard chess formula
// NewRating = OldRating + K * (ActualScore - ExpectedScore), with the
// actual score 1 for the winner and 0 for the loser.
package elo

import (
	"fmt"
	"math"
)

const (
	// MinRating and MaxRating bound a stored rating; ValidateRating clamps to them.
	MinRating = 100
	MaxRating = 3000

	// DefaultRating is assigned to players with no rating on record.
	DefaultRating = 1200
)

// PlayerResult holds the before/after ratings for one side of a match.
type PlayerResult struct {
	OldRating int `json:"old_rating"`
	NewRating int `json:"new_rating"`
	Change    int `json:"change"`
}

// Result holds the rating movement for both sides of a completed match.
type Result struct {
	Winner PlayerResult `json:"winner"`
	Loser  PlayerResult `json:"loser"`
}

// kFactor determines rating volatility. New players move fast, established
// players move slowly, top players barely move at all.
func kFactor(rating, matchesPlayed int) int {
	if matchesPlayed < 30 {
		return 40
	}
	if rating < 2100 {
		return 32
	}
	if rating >= 2400 {
		return 16
	}
	return 24
}

// expectedScore is the standard logistic win expectancy
// E = 1 / (1 + 10^((opponent-self)/400)).
func expectedScore(rating, opponentRating int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponentRating-rating)/400))
}

// CalculateChange computes the rating movement for a decided match.
// Each side uses its own K-factor, so the winner's gain and the loser's loss
// only mirror each other when both K-factors agree. No clamping is applied
// here; callers persist via ValidateRating.
func CalculateChange(winnerRating, loserRating, winnerMatchesPlayed, loserMatchesPlayed int) Result {
	winnerK := kFactor(winnerRating, winnerMatchesPlayed)
	loserK := kFactor(loserRating, loserMatchesPlayed)

	winnerExpected := expectedScore(winnerRating, loserRating)
	loserExpected := expectedScore(loserRating, winnerRating)

	winnerChange := int(math.Round(float64(winnerK) * (1 - winnerExpected)))
	loserChange := int(math.Round(float64(loserK) * (0 - loserExpected)))

	return Result{
		Winner: PlayerResult{
			OldRating: winnerRating,
			NewRating: winnerRating + winnerChange,
			Change:    winnerChange,
		},
		Loser: PlayerResult{
			OldRating: loserRating,
			NewRating: loserRating + loserChange,
			Change:    loserChange,
		},
	}
}

// WinProbability returns the chance of the first player beating the second,
// in (0,1). WinProbability(a,b) + WinProbability(b,a) == 1.
func WinProbability(rating, opponentRating int) float64 {
	return expectedScore(rating, opponentRating)
}

// Description maps a rating to its human-readable band. Bands are closed on
// the lower bound: exactly 1800 is "Advanced".
func Description(rating int) string {
	switch {
	case rating >= 2400:
		return "Elite Professional"
	case rating >= 2200:
		return "Professional"
	case rating >= 2000:
		return "Expert"
	case rating >= 1800:
		return "Advanced"
	case rating >= 1600:
		return "Intermediate+"
	case rating >= 1400:
		return "Intermediate"
	case rating >= 1200:
		return "Beginner+"
	case rating >= 1000:
		return "Beginner"
	default:
		return "Novice"
	}
}

// DifferenceDescription describes a rating gap in matchup terms.
func DifferenceDescription(difference int) string {
	absDiff := difference
	if absDiff < 0 {
		absDiff = -absDiff
	}

	switch {
	case absDiff < 50:
		return "Evenly matched"
	case absDiff < 100:
		return "Slight advantage"
	case absDiff < 200:
		return "Clear advantage"
	case absDiff < 300:
		return "Strong advantage"
	default:
		return "Overwhelming advantage"
	}
}

// ExpectedPointDifferential estimates the per-set game margin for a rating gap.
func ExpectedPointDifferential(difference int) string {
	absDiff := difference
	if absDiff < 0 {
		absDiff = -absDiff
	}

	switch {
	case absDiff < 50:
		return "±1-2 games per set"
	case absDiff < 100:
		return "±2-3 games per set"
	case absDiff < 200:
		return "±3-4 games per set"
	case absDiff < 300:
		return "±4-5 games per set"
	default:
		return "±5+ games per set"
	}
}

// ValidateRating clamps a rating into [MinRating, MaxRating], rounding
// half away from zero.
func ValidateRating(rating float64) int {
	if rating < MinRating {
		return MinRating
	}
	if rating > MaxRating {
		return MaxRating
	}
	return int(math.Round(rating))
}

// FormatChange renders a rating change with an explicit sign for gains.
func FormatChange(change int) string {
	if change > 0 {
		return fmt.Sprintf("+%d", change)
	}
	return fmt.Sprintf("%d", change)
}

// ChangeColor is the semantic color category for a rating change.
type ChangeColor string

const (
	ColorPositive ChangeColor = "positive"
	ColorNegative ChangeColor = "negative"
	ColorNeutral  ChangeColor = "neutral"
)

// ColorForChange classifies a rating change for display.
func ColorForChange(change int) ChangeColor {
	if change > 0 {
		return ColorPositive
	}
	if change < 0 {
		return ColorNegative
	}
	return ColorNeutral
}
