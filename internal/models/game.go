package models

import "time"

// GameStatus is the lifecycle state of a game
type GameStatus string

const (
	GameCreated    GameStatus = "creado"
	GameInProgress GameStatus = "en_curso"
	GameWon        GameStatus = "ganado"
	GameLost       GameStatus = "perdido"
)

// IsOpen reports whether the game still accepts moves
func (s GameStatus) IsOpen() bool {
	return s == GameCreated || s == GameInProgress
}

// IsTerminal reports whether the game has been decided
func (s GameStatus) IsTerminal() bool {
	return s == GameWon || s == GameLost
}

// CellStatus tells whether a cell has been revealed
type CellStatus string

const (
	CellHidden   CellStatus = "oculta"
	CellRevealed CellStatus = "destapada"
)

// HeroType binds a cell to the hero that resolves it
type HeroType int

const (
	HeroMagic    HeroType = 1
	HeroStrength HeroType = 2
	HeroSkill    HeroType = 3
)

// Valid reports whether t is one of the three hero archetypes
func (t HeroType) Valid() bool {
	return t >= HeroMagic && t <= HeroSkill
}

// Outcome is the result of resolving a reveal
type Outcome string

const (
	OutcomeSuccess        Outcome = "exito"
	OutcomeFailedAttempt  Outcome = "fracaso_intento"
	OutcomeFailureNoPower Outcome = "fracaso_sin_poder"
)

// IsSuccess reports whether the outcome resets the loss streak
func (o Outcome) IsSuccess() bool {
	return o == OutcomeSuccess
}

// Game is a single play-through owned by one user
type Game struct {
	ID        int64
	Name      string
	Status    GameStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Board holds the fixed dimensions of a game's grid
type Board struct {
	ID      int64
	GameID  int64
	Rows    int
	Columns int
}

// Contains reports whether (x, y) lies on the board
func (b *Board) Contains(x, y int) bool {
	return x >= 0 && x < b.Rows && y >= 0 && y < b.Columns
}

// Size returns the number of cells on the board
func (b *Board) Size() int {
	return b.Rows * b.Columns
}

// Cell is one position of a board
type Cell struct {
	ID         int64
	BoardID    int64
	X          int
	Y          int
	Type       HeroType
	Effort     int
	Status     CellStatus
	RevealedAt *time.Time
}

// Revealed reports whether the cell has already been resolved
func (c *Cell) Revealed() bool {
	return c.Status == CellRevealed
}

// Hero is one of the three characters of a game
type Hero struct {
	ID       int64
	GameID   int64
	Name     string
	Type     HeroType
	MaxPower int
	Power    int
	Alive    bool
}

// CanAttempt reports whether the hero can still succeed at anything
func (h *Hero) CanAttempt() bool {
	return h.Alive && h.Power > 0
}

// Round carries the loss streak of a game at a given step
type Round struct {
	ID         int64
	GameID     int64
	Number     int
	LossStreak int
	CreatedAt  time.Time
}

// Attempt is the append-only audit record of one reveal
type Attempt struct {
	ID             int64
	GameID         int64
	RoundID        int64
	CellID         int64
	HeroID         int64
	Outcome        Outcome
	Probability    int
	RequiredEffort int
	PowerBefore    int
	PowerAfter     int
	CreatedAt      time.Time
}

// GameState is the snapshot produced after evaluating a game
type GameState struct {
	Status      GameStatus
	Revealed    int
	Total       int
	AliveHeroes int
	LossStreak  int
}

// GameSummary is a game listed for its owner
type GameSummary struct {
	Game
	BoardID  int64
	Rows     int
	Columns  int
	Revealed int
}
