package engine

import "hobbyte/internal/models"

// Resolution describes how a reveal played out for the hero involved
type Resolution struct {
	Outcome     models.Outcome
	Probability int
	// Roll is the drawn value in [1, 100], or 0 when no roll happened
	Roll        int
	PowerBefore int
	PowerAfter  int
	Alive       bool
}

// Success reports whether the reveal succeeded
func (r Resolution) Success() bool {
	return r.Outcome.IsSuccess()
}

// Rolled reports whether a probability roll took place
func (r Resolution) Rolled() bool {
	return r.Roll > 0
}

// SuccessProbability returns the chance, in percent, that a hero with the
// given power clears a cell requiring effort.
func SuccessProbability(power, effort int) int {
	switch {
	case power > effort:
		return 90
	case power == effort:
		return 70
	default:
		return 50
	}
}

// Resolve decides the outcome of hero attempting cell.
// A hero that is inactive or out of power fails without rolling. Otherwise a
// roll in [1, 100] at or under the success probability succeeds and spends the
// cell's effort; any other roll drains the hero and takes it out of the game.
func Resolve(hero models.Hero, cell models.Cell, r Random) Resolution {
	res := Resolution{
		PowerBefore: hero.Power,
		PowerAfter:  hero.Power,
		Alive:       hero.Alive,
	}

	if !hero.CanAttempt() {
		res.Outcome = models.OutcomeFailureNoPower
		res.Probability = NoPowerProbability
		return res
	}

	res.Probability = SuccessProbability(hero.Power, cell.Effort)
	res.Roll = r.IntN(100) + 1

	if res.Roll <= res.Probability {
		res.Outcome = models.OutcomeSuccess
		res.PowerAfter = max(0, hero.Power-cell.Effort)
		return res
	}

	res.Outcome = models.OutcomeFailedAttempt
	res.PowerAfter = 0
	res.Alive = false
	return res
}

// Apply writes the resolution back onto the hero
func (r Resolution) Apply(hero *models.Hero) {
	hero.Power = r.PowerAfter
	hero.Alive = r.Alive
}

// NextLossStreak resets the streak on success and extends it otherwise
func NextLossStreak(current int, success bool) int {
	if success {
		return 0
	}
	return current + 1
}
