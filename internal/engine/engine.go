// Package engine contains the rules of the game: board generation, the hero
// roster, reveal resolution and win/loss evaluation. It performs no I/O; the
// service layer persists whatever the engine decides.
package engine

import (
	"errors"
	"math/rand/v2"

	"hobbyte/internal/models"
)

const (
	// StartingPower is the max and initial power of every hero
	StartingPower = 50

	// MaxLossStreak ends the game once that many consecutive reveals fail
	MaxLossStreak = 5

	// NoPowerProbability is recorded on attempts that never roll
	NoPowerProbability = 50
)

// EffortValues is the closed set of efforts a cell can require
var EffortValues = []int{5, 10, 15, 20, 25, 30, 35, 40, 45, 50}

var ErrInvalidDimensions = errors.New("board needs at least one row and one column")

// Random is a uniform integer source. IntN returns a value in [0, n).
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom draws from the process-wide math/rand/v2 source
var DefaultRandom Random = globalRandom{}

// CellType picks one of the three hero types uniformly
func CellType(r Random) models.HeroType {
	return models.HeroType(r.IntN(3) + 1)
}

// CellEffort draws an effort value: 65% from 5-20, 30% from 25-40, 5% from 45-50.
func CellEffort(r Random) int {
	bucket := r.IntN(100)
	switch {
	case bucket < 65:
		return EffortValues[r.IntN(4)]
	case bucket < 95:
		return EffortValues[4+r.IntN(4)]
	default:
		return EffortValues[8+r.IntN(2)]
	}
}

// GenerateCells lays out rows*columns hidden cells in row-major order
func GenerateCells(rows, columns int, r Random) ([]models.Cell, error) {
	if rows < 1 || columns < 1 {
		return nil, ErrInvalidDimensions
	}

	cells := make([]models.Cell, 0, rows*columns)
	for x := 0; x < rows; x++ {
		for y := 0; y < columns; y++ {
			cells = append(cells, models.Cell{
				X:      x,
				Y:      y,
				Type:   CellType(r),
				Effort: CellEffort(r),
				Status: models.CellHidden,
			})
		}
	}
	return cells, nil
}

// Roster returns the three starting heroes, one per type
func Roster() []models.Hero {
	return []models.Hero{
		{Name: "Gandalf", Type: models.HeroMagic, MaxPower: StartingPower, Power: StartingPower, Alive: true},
		{Name: "Thorin", Type: models.HeroStrength, MaxPower: StartingPower, Power: StartingPower, Alive: true},
		{Name: "Bilbo", Type: models.HeroSkill, MaxPower: StartingPower, Power: StartingPower, Alive: true},
	}
}
