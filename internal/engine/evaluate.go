package engine

import "hobbyte/internal/models"

// Tally is what the evaluator reads from a game after a reveal
type Tally struct {
	LossStreak  int
	AliveHeroes int
	Revealed    int
	Total       int
}

// WinThreshold is the number of revealed cells needed to win: half the board, rounded up
func WinThreshold(total int) int {
	return (total + 1) / 2
}

// Evaluate decides the game status. Loss is checked before win, so a game that
// meets both conditions at once is lost.
func Evaluate(t Tally) models.GameStatus {
	if t.LossStreak >= MaxLossStreak || t.AliveHeroes == 0 {
		return models.GameLost
	}
	if t.Revealed >= WinThreshold(t.Total) && t.AliveHeroes >= 1 {
		return models.GameWon
	}
	return models.GameInProgress
}

// State builds the snapshot returned to callers
func (t Tally) State(status models.GameStatus) models.GameState {
	return models.GameState{
		Status:      status,
		Revealed:    t.Revealed,
		Total:       t.Total,
		AliveHeroes: t.AliveHeroes,
		LossStreak:  t.LossStreak,
	}
}
