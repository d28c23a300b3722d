package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hobbyte/internal/database"
	"hobbyte/internal/engine"
	"hobbyte/internal/models"
	"hobbyte/internal/repository"
	"hobbyte/internal/validation"
)

const (
	DefaultGameName = "Partida"
	DefaultRows     = 4
	DefaultColumns  = 5
)

var (
	ErrNotOwner         = errors.New("not authorized for this game")
	ErrGameNotFound     = errors.New("game not found")
	ErrBoardMissing     = errors.New("board not found")
	ErrCellOutOfRange   = errors.New("coordinates out of range")
	ErrCellNotFound     = errors.New("cell not found")
	ErrCellRevealed     = errors.New("cell already revealed")
	ErrTooManyOpenGames = errors.New("too many open games")
)

// GameStateError is returned when a game no longer accepts moves
type GameStateError struct {
	Status models.GameStatus
}

func (e *GameStateError) Error() string {
	return fmt.Sprintf("game is %s", e.Status)
}

// GameLimits bounds what a single user can create
type GameLimits struct {
	MaxOpenGames int
	MaxBoardSize int
}

// CreatedGame identifies the rows created for a new game
type CreatedGame struct {
	Game  *models.Game
	Board *models.Board
	Round *models.Round
}

// GameView is the full snapshot of a game
type GameView struct {
	Game   *models.Game
	Board  *models.Board
	Heroes []models.Hero
	Cells  []models.Cell
}

// RevealResult is the outcome of one reveal and the game state it led to
type RevealResult struct {
	Cell       models.Cell
	Hero       models.Hero
	Resolution engine.Resolution
	Attempt    models.Attempt
	State      models.GameState
}

// SurrenderResult is the end-of-game snapshot returned by Surrender
type SurrenderResult struct {
	Status models.GameStatus
	Heroes []models.Hero
	Cells  []models.Cell
}

// GameService runs the game rules against the database. Every mutation of a
// game runs under that game's lock and inside one transaction.
type GameService struct {
	db        *database.DB
	rng       engine.Random
	limits    GameLimits
	logger    *zap.Logger
	gameLocks *keyedMutex
	userLocks *keyedMutex
	now       func() time.Time
}

// NewGameService creates a new game service. A nil rng uses engine.DefaultRandom.
func NewGameService(db *database.DB, rng engine.Random, limits GameLimits, logger *zap.Logger) *GameService {
	if rng == nil {
		rng = engine.DefaultRandom
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameService{
		db:        db,
		rng:       rng,
		limits:    limits,
		logger:    logger,
		gameLocks: newKeyedMutex(),
		userLocks: newKeyedMutex(),
		now:       time.Now,
	}
}

// CreateGame creates a game owned by userID with its board, heroes and first round
func (s *GameService) CreateGame(userID int64, name string, rows, columns int) (*CreatedGame, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultGameName
	}
	if err := validation.ValidateGameName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateBoardDimension("filas", rows, s.limits.MaxBoardSize); err != nil {
		return nil, err
	}
	if err := validation.ValidateBoardDimension("columnas", columns, s.limits.MaxBoardSize); err != nil {
		return nil, err
	}

	cells, err := engine.GenerateCells(rows, columns, s.rng)
	if err != nil {
		return nil, err
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	var created CreatedGame
	err = s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewGameRepository(tx)

		open, err := repo.CountOpenGames(userID)
		if err != nil {
			return err
		}
		if open >= s.limits.MaxOpenGames {
			return ErrTooManyOpenGames
		}

		game, err := repo.CreateGame(name)
		if err != nil {
			return err
		}
		if err := repo.AddPlayer(game.ID, userID); err != nil {
			return err
		}

		board, err := repo.CreateBoard(game.ID, rows, columns)
		if err != nil {
			return err
		}
		if err := repo.InsertCells(board.ID, cells); err != nil {
			return err
		}
		if err := repo.InsertHeroes(game.ID, engine.Roster()); err != nil {
			return err
		}

		round, err := repo.CreateRound(game.ID, 1, 0)
		if err != nil {
			return err
		}

		created = CreatedGame{Game: game, Board: board, Round: round}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		zap.Int64("game_id", created.Game.ID),
		zap.Int64("user_id", userID),
		zap.Int("rows", rows),
		zap.Int("columns", columns),
	)
	return &created, nil
}

// ListGames returns the user's games, newest first
func (s *GameService) ListGames(userID int64) ([]models.GameSummary, error) {
	return repository.NewGameRepository(s.db).ListGamesForUser(userID)
}

// checkOwner runs before any existence check, so games of other users and
// missing games are indistinguishable to the caller.
func checkOwner(repo *repository.GameRepository, gameID, userID int64) error {
	owner, err := repo.IsOwner(gameID, userID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotOwner
	}
	return nil
}

// GetGame returns the full snapshot of a game owned by userID
func (s *GameService) GetGame(userID, gameID int64) (*GameView, error) {
	repo := repository.NewGameRepository(s.db)
	if err := checkOwner(repo, gameID, userID); err != nil {
		return nil, err
	}

	game, err := repo.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	board, err := repo.GetBoardByGame(gameID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, ErrBoardMissing
	}

	heroes, err := repo.GetHeroes(gameID)
	if err != nil {
		return nil, err
	}
	cells, err := repo.GetCells(board.ID)
	if err != nil {
		return nil, err
	}

	return &GameView{Game: game, Board: board, Heroes: heroes, Cells: cells}, nil
}

// Attempts returns the attempt log of a game owned by userID
func (s *GameService) Attempts(userID, gameID int64) ([]models.Attempt, error) {
	repo := repository.NewGameRepository(s.db)
	if err := checkOwner(repo, gameID, userID); err != nil {
		return nil, err
	}
	return repo.ListAttempts(gameID)
}

// Reveal resolves the cell at (x, y) of a game owned by userID against the
// hero of the cell's type, records the attempt and evaluates the game.
func (s *GameService) Reveal(userID, gameID int64, x, y int) (*RevealResult, error) {
	unlock := s.gameLocks.Lock(gameID)
	defer unlock()

	var result RevealResult
	err := s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewGameRepository(tx)

		if err := checkOwner(repo, gameID, userID); err != nil {
			return err
		}

		game, err := repo.LockGame(gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return ErrGameNotFound
		}
		if !game.Status.IsOpen() {
			return &GameStateError{Status: game.Status}
		}

		board, err := repo.GetBoardByGame(gameID)
		if err != nil {
			return err
		}
		if board == nil {
			return ErrBoardMissing
		}
		if !board.Contains(x, y) {
			return ErrCellOutOfRange
		}

		cell, err := repo.GetCellAt(board.ID, x, y)
		if err != nil {
			return err
		}
		if cell == nil {
			return ErrCellNotFound
		}
		if cell.Revealed() {
			return ErrCellRevealed
		}

		hero, err := repo.GetHeroByType(gameID, cell.Type)
		if err != nil {
			return err
		}
		if hero == nil {
			return fmt.Errorf("game %d has no hero of type %d", gameID, cell.Type)
		}

		res := engine.Resolve(*hero, *cell, s.rng)

		revealedAt := s.now()
		ok, err := repo.MarkCellRevealed(cell.ID, revealedAt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCellRevealed
		}
		cell.Status = models.CellRevealed
		cell.RevealedAt = &revealedAt

		if res.Rolled() {
			res.Apply(hero)
			if err := repo.UpdateHero(hero); err != nil {
				return err
			}
		}

		round, err := currentRound(repo, gameID)
		if err != nil {
			return err
		}

		attempt := models.Attempt{
			GameID:         gameID,
			RoundID:        round.ID,
			CellID:         cell.ID,
			HeroID:         hero.ID,
			Outcome:        res.Outcome,
			Probability:    res.Probability,
			RequiredEffort: cell.Effort,
			PowerBefore:    res.PowerBefore,
			PowerAfter:     res.PowerAfter,
			CreatedAt:      revealedAt,
		}
		if err := repo.InsertAttempt(&attempt); err != nil {
			return err
		}

		round.LossStreak = engine.NextLossStreak(round.LossStreak, res.Success())
		if err := repo.UpdateRoundStreak(round.ID, round.LossStreak); err != nil {
			return err
		}

		state, err := evaluate(repo, game, board, round)
		if err != nil {
			return err
		}

		result = RevealResult{
			Cell:       *cell,
			Hero:       *hero,
			Resolution: res,
			Attempt:    attempt,
			State:      state,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cell revealed",
		zap.Int64("game_id", gameID),
		zap.Int("x", x),
		zap.Int("y", y),
		zap.String("outcome", string(result.Resolution.Outcome)),
		zap.String("status", string(result.State.Status)),
	)
	if result.State.Status.IsTerminal() {
		s.logger.Info("game finished",
			zap.Int64("game_id", gameID),
			zap.String("status", string(result.State.Status)),
		)
	}
	return &result, nil
}

// currentRound returns the latest round, starting round 1 when none exists yet
func currentRound(repo *repository.GameRepository, gameID int64) (*models.Round, error) {
	round, err := repo.CurrentRound(gameID)
	if err != nil {
		return nil, err
	}
	if round != nil {
		return round, nil
	}
	return repo.CreateRound(gameID, 1, 0)
}

// evaluate decides the game status after a reveal and persists it. A game that
// goes on is promoted to in progress and gets a new round carrying the streak.
func evaluate(repo *repository.GameRepository, game *models.Game, board *models.Board, round *models.Round) (models.GameState, error) {
	revealed, total, err := repo.CountCells(board.ID)
	if err != nil {
		return models.GameState{}, err
	}
	alive, err := repo.CountAliveHeroes(game.ID)
	if err != nil {
		return models.GameState{}, err
	}

	tally := engine.Tally{
		LossStreak:  round.LossStreak,
		AliveHeroes: alive,
		Revealed:    revealed,
		Total:       total,
	}
	status := engine.Evaluate(tally)

	if status.IsTerminal() {
		if err := repo.UpdateGameStatus(game.ID, status); err != nil {
			return models.GameState{}, err
		}
		game.Status = status
		return tally.State(status), nil
	}

	if game.Status == models.GameCreated {
		if err := repo.UpdateGameStatus(game.ID, models.GameInProgress); err != nil {
			return models.GameState{}, err
		}
		game.Status = models.GameInProgress
	}
	if _, err := repo.CreateRound(game.ID, round.Number+1, round.LossStreak); err != nil {
		return models.GameState{}, err
	}
	return tally.State(status), nil
}

// Surrender forfeits an open game. Decided games are left as they are.
func (s *GameService) Surrender(userID, gameID int64) (*SurrenderResult, error) {
	unlock := s.gameLocks.Lock(gameID)
	defer unlock()

	var result SurrenderResult
	surrendered := false
	err := s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewGameRepository(tx)

		if err := checkOwner(repo, gameID, userID); err != nil {
			return err
		}

		game, err := repo.LockGame(gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return ErrGameNotFound
		}
		if game.Status.IsOpen() {
			if err := repo.UpdateGameStatus(gameID, models.GameLost); err != nil {
				return err
			}
			game.Status = models.GameLost
			surrendered = true
		}

		result.Status = game.Status
		result.Cells = []models.Cell{}
		board, err := repo.GetBoardByGame(gameID)
		if err != nil {
			return err
		}
		if board != nil {
			if result.Cells, err = repo.GetCells(board.ID); err != nil {
				return err
			}
		}

		result.Heroes, err = repo.GetHeroes(gameID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if surrendered {
		s.logger.Info("game surrendered", zap.Int64("game_id", gameID), zap.Int64("user_id", userID))
	}
	return &result, nil
}
