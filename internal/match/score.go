package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tennismeet/tennismeet/internal/elo"
	"github.com/tennismeet/tennismeet/internal/players"
)

// ValidateScore checks a recorded score against standard tennis rules:
// 2-5 sets, each set won 6-0 through 6-4, 7-5, or 7-6 with a tiebreak, and
// enough set wins for a side to have taken the match.
func ValidateScore(sets []Set) ScoreValidation {
	if len(sets) < 2 {
		return ScoreValidation{Error: "Match must have at least 2 sets"}
	}
	if len(sets) > 5 {
		return ScoreValidation{Error: "Match cannot have more than 5 sets"}
	}

	for i, set := range sets {
		setNum := i + 1

		if set.Player1Games < 0 || set.Player2Games < 0 {
			return ScoreValidation{Error: fmt.Sprintf("Set %d: Games cannot be negative", setNum)}
		}

		maxGames := max(set.Player1Games, set.Player2Games)
		minGames := min(set.Player1Games, set.Player2Games)

		if maxGames < 6 {
			return ScoreValidation{Error: fmt.Sprintf("Set %d: Winner must have at least 6 games", setNum)}
		}

		// Standard set, win by two: 6-0 through 6-4.
		if maxGames == 6 && minGames > 4 {
			return ScoreValidation{Error: fmt.Sprintf("Set %d: Invalid score %d-%d", setNum, maxGames, minGames)}
		}

		// Extended set: 7-5, or 7-6 decided by a tiebreak.
		if maxGames == 7 {
			if minGames != 5 && minGames != 6 {
				return ScoreValidation{Error: fmt.Sprintf("Set %d: Invalid score %d-%d", setNum, maxGames, minGames)}
			}
			if minGames == 6 && set.Tiebreak == nil {
				return ScoreValidation{Error: fmt.Sprintf("Set %d: 7-6 score requires tiebreak details", setNum)}
			}
		}

		if maxGames > 7 {
			return ScoreValidation{Error: fmt.Sprintf("Set %d: Games cannot exceed 7 (use tiebreak)", setNum)}
		}

		if set.Tiebreak != nil {
			tbMax := max(set.Tiebreak.Player1Points, set.Tiebreak.Player2Points)
			tbMin := min(set.Tiebreak.Player1Points, set.Tiebreak.Player2Points)

			if tbMax < 7 {
				return ScoreValidation{Error: fmt.Sprintf("Set %d: Tiebreak winner must have at least 7 points", setNum)}
			}
			if tbMax-tbMin < 2 {
				return ScoreValidation{Error: fmt.Sprintf("Set %d: Tiebreak must be won by 2 points", setNum)}
			}
		}
	}

	player1Sets, player2Sets := countSetWins(sets)
	maxSets := max(player1Sets, player2Sets)

	if len(sets) <= 3 && maxSets < 2 {
		return ScoreValidation{Error: "Match incomplete: No player won 2 sets (best of 3)"}
	}
	if len(sets) > 3 && maxSets < 3 {
		return ScoreValidation{Error: "Match incomplete: No player won 3 sets (best of 5)"}
	}

	return ScoreValidation{Valid: true}
}

func countSetWins(sets []Set) (player1, player2 int) {
	for _, set := range sets {
		if set.Player1Games > set.Player2Games {
			player1++
		} else {
			player2++
		}
	}
	return player1, player2
}

// DetermineWinner returns the id of whichever player won the majority of sets.
func DetermineWinner(sets []Set, player1ID, player2ID string) string {
	player1Sets, player2Sets := countSetWins(sets)
	if player1Sets > player2Sets {
		return player1ID
	}
	return player2ID
}

// FormatScore renders a score for display, e.g. "6-4, 7-6(5)". For tiebreak
// sets the set loser's tiebreak points go in the parentheses.
func FormatScore(sets []Set) string {
	parts := make([]string, 0, len(sets))
	for _, set := range sets {
		part := fmt.Sprintf("%d-%d", set.Player1Games, set.Player2Games)
		if set.Tiebreak != nil {
			loserPoints := set.Tiebreak.Player2Points
			if set.Player1Games < set.Player2Games {
				loserPoints = set.Tiebreak.Player1Points
			}
			part += fmt.Sprintf("(%d)", loserPoints)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// Create builds a completed match record from a final score. It validates the
// score, determines the winner, and computes the rating movement for both
// players from their current ratings and match counts. The returned match is
// the single reconciliation point of match completion and rating mutation:
// either the whole record is produced, or an error and nothing else.
func Create(player1, player2 *players.Player, sets []Set, location Location, surface players.Surface, notes string) (*Match, error) {
	validation := ValidateScore(sets)
	if !validation.Valid {
		return nil, fmt.Errorf("invalid match score: %s", validation.Error)
	}

	winnerID := DetermineWinner(sets, player1.ID, player2.ID)

	winner, loser := player1, player2
	if winnerID == player2.ID {
		winner, loser = player2, player1
	}

	result := elo.CalculateChange(
		winner.Stats.Elo,
		loser.Stats.Elo,
		winner.Stats.MatchesPlayed,
		loser.Stats.MatchesPlayed,
	)

	changes := &EloChanges{}
	if winnerID == player1.ID {
		changes.Player1Change = result.Winner.Change
		changes.Player2Change = result.Loser.Change
		changes.Player1NewElo = elo.ValidateRating(float64(result.Winner.NewRating))
		changes.Player2NewElo = elo.ValidateRating(float64(result.Loser.NewRating))
	} else {
		changes.Player1Change = result.Loser.Change
		changes.Player2Change = result.Winner.Change
		changes.Player1NewElo = elo.ValidateRating(float64(result.Loser.NewRating))
		changes.Player2NewElo = elo.ValidateRating(float64(result.Winner.NewRating))
	}

	now := time.Now()
	return &Match{
		ID:          uuid.New().String(),
		Player1ID:   player1.ID,
		Player2ID:   player2.ID,
		Status:      StatusCompleted,
		Surface:     surface,
		Location:    location,
		Sets:        sets,
		WinnerID:    winnerID,
		EloChanges:  changes,
		Notes:       notes,
		CompletedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
