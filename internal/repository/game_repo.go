package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hobbyte/internal/database"
	"hobbyte/internal/models"
)

// cellBatchSize keeps multi-row inserts under SQLite's bound parameter limit
const cellBatchSize = 100

// GameRepository handles database operations for games and everything a game owns:
// its board, cells, heroes, rounds and attempts.
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository. Pass a *database.Tx to run
// every call inside that transaction.
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

// CreateGame inserts a new game in the created state
func (r *GameRepository) CreateGame(name string) (*models.Game, error) {
	now := time.Now()
	game := &models.Game{
		Name:      name,
		Status:    models.GameCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.InsertGame(game); err != nil {
		return nil, err
	}
	return game, nil
}

// InsertGame stores game as given and sets its ID
func (r *GameRepository) InsertGame(game *models.Game) error {
	query := `
		INSERT INTO games (name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, game.Name, string(game.Status), game.CreatedAt, game.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	game.ID = id
	return nil
}

// AddPlayer links a user to a game as its owner
func (r *GameRepository) AddPlayer(gameID, userID int64) error {
	if _, err := r.db.Exec("INSERT INTO game_players (game_id, user_id) VALUES (?, ?)", gameID, userID); err != nil {
		return fmt.Errorf("failed to add game player: %w", err)
	}
	return nil
}

// IsOwner reports whether userID is linked to gameID
func (r *GameRepository) IsOwner(gameID, userID int64) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM game_players WHERE game_id = ? AND user_id = ?", gameID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check game ownership: %w", err)
	}
	return count > 0, nil
}

// GetOwnerID returns the owning user of a game, or 0 when the game has none
func (r *GameRepository) GetOwnerID(gameID int64) (int64, error) {
	var userID int64
	err := r.db.QueryRow("SELECT user_id FROM game_players WHERE game_id = ?", gameID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get game owner: %w", err)
	}
	return userID, nil
}

// CountOpenGames counts the user's games that have not been decided yet
func (r *GameRepository) CountOpenGames(userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM games g
		JOIN game_players gp ON gp.game_id = g.id
		WHERE gp.user_id = ? AND g.status IN (?, ?)
	`
	var count int
	err := r.db.QueryRow(query, userID, string(models.GameCreated), string(models.GameInProgress)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open games: %w", err)
	}
	return count, nil
}

const gameColumns = "id, name, status, created_at, updated_at"

func scanGame(row interface{ Scan(...any) error }) (*models.Game, error) {
	game := &models.Game{}
	var status string
	if err := row.Scan(&game.ID, &game.Name, &status, &game.CreatedAt, &game.UpdatedAt); err != nil {
		return nil, err
	}
	game.Status = models.GameStatus(status)
	return game, nil
}

// GetGame retrieves a game by ID
func (r *GameRepository) GetGame(id int64) (*models.Game, error) {
	game, err := scanGame(r.db.QueryRow("SELECT "+gameColumns+" FROM games WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// LockGame retrieves a game and, where the dialect supports it, locks its row
// until the surrounding transaction ends.
func (r *GameRepository) LockGame(id int64) (*models.Game, error) {
	query := "SELECT " + gameColumns + " FROM games WHERE id = ?" + r.db.GetDialect().RowLockClause()
	game, err := scanGame(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock game: %w", err)
	}
	return game, nil
}

// UpdateGameStatus sets the status of a game
func (r *GameRepository) UpdateGameStatus(id int64, status models.GameStatus) error {
	query := `
		UPDATE games
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, string(status), id); err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}
	return nil
}

// ListGamesForUser returns the user's games with their board size and progress, newest first
func (r *GameRepository) ListGamesForUser(userID int64) ([]models.GameSummary, error) {
	query := `
		SELECT g.id, g.name, g.status, g.created_at, g.updated_at,
			COALESCE(b.id, 0), COALESCE(b.rows_count, 0), COALESCE(b.cols_count, 0),
			(SELECT COUNT(*) FROM cells c WHERE c.board_id = b.id AND c.status = ?)
		FROM games g
		JOIN game_players gp ON gp.game_id = g.id
		LEFT JOIN boards b ON b.game_id = g.id
		WHERE gp.user_id = ?
		ORDER BY g.id DESC
	`
	rows, err := r.db.Query(query, string(models.CellRevealed), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []models.GameSummary{}
	for rows.Next() {
		var s models.GameSummary
		var status string
		if err := rows.Scan(
			&s.ID, &s.Name, &status, &s.CreatedAt, &s.UpdatedAt,
			&s.BoardID, &s.Rows, &s.Columns,
			&s.Revealed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		s.Status = models.GameStatus(status)
		games = append(games, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}

// ListGameIDs returns every game ID in creation order
func (r *GameRepository) ListGameIDs() ([]int64, error) {
	rows, err := r.db.Query("SELECT id FROM games ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query game ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateBoard inserts the board of a game
func (r *GameRepository) CreateBoard(gameID int64, rowsCount, colsCount int) (*models.Board, error) {
	query := `
		INSERT INTO boards (game_id, rows_count, cols_count)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, gameID, rowsCount, colsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return &models.Board{ID: id, GameID: gameID, Rows: rowsCount, Columns: colsCount}, nil
}

// GetBoardByGame retrieves the board of a game
func (r *GameRepository) GetBoardByGame(gameID int64) (*models.Board, error) {
	board := &models.Board{}
	err := r.db.QueryRow(
		"SELECT id, game_id, rows_count, cols_count FROM boards WHERE game_id = ?", gameID,
	).Scan(&board.ID, &board.GameID, &board.Rows, &board.Columns)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return board, nil
}

// InsertCells stores the cells of a board in batches. Cell IDs are not set.
func (r *GameRepository) InsertCells(boardID int64, cells []models.Cell) error {
	for start := 0; start < len(cells); start += cellBatchSize {
		end := min(start+cellBatchSize, len(cells))
		batch := cells[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO cells (board_id, x, y, type, effort, status, revealed_at) VALUES ")
		args := make([]interface{}, 0, len(batch)*7)
		for i, c := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?, ?)")

			status := c.Status
			if status == "" {
				status = models.CellHidden
			}
			var revealedAt interface{}
			if c.RevealedAt != nil {
				revealedAt = *c.RevealedAt
			}
			args = append(args, boardID, c.X, c.Y, int(c.Type), c.Effort, string(status), revealedAt)
		}

		if _, err := r.db.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("failed to create cells: %w", err)
		}
	}
	return nil
}

const cellColumns = "id, board_id, x, y, type, effort, status, revealed_at"

func scanCell(row interface{ Scan(...any) error }) (*models.Cell, error) {
	cell := &models.Cell{}
	var cellType int
	var status string
	var revealedAt sql.NullTime
	if err := row.Scan(&cell.ID, &cell.BoardID, &cell.X, &cell.Y, &cellType, &cell.Effort, &status, &revealedAt); err != nil {
		return nil, err
	}
	cell.Type = models.HeroType(cellType)
	cell.Status = models.CellStatus(status)
	if revealedAt.Valid {
		t := revealedAt.Time
		cell.RevealedAt = &t
	}
	return cell, nil
}

// GetCells returns every cell of a board in row-major order
func (r *GameRepository) GetCells(boardID int64) ([]models.Cell, error) {
	rows, err := r.db.Query("SELECT "+cellColumns+" FROM cells WHERE board_id = ? ORDER BY x, y", boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	cells := []models.Cell{}
	for rows.Next() {
		cell, err := scanCell(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		cells = append(cells, *cell)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cells: %w", err)
	}
	return cells, nil
}

// GetCellAt retrieves the cell at (x, y) of a board
func (r *GameRepository) GetCellAt(boardID int64, x, y int) (*models.Cell, error) {
	query := "SELECT " + cellColumns + " FROM cells WHERE board_id = ? AND x = ? AND y = ?"
	cell, err := scanCell(r.db.QueryRow(query, boardID, x, y))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cell: %w", err)
	}
	return cell, nil
}

// MarkCellRevealed flips a hidden cell to revealed. It reports false when the
// cell was already revealed, so a cell can only ever be revealed once.
func (r *GameRepository) MarkCellRevealed(cellID int64, at time.Time) (bool, error) {
	query := `
		UPDATE cells
		SET status = ?, revealed_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(query, string(models.CellRevealed), at, cellID, string(models.CellHidden))
	if err != nil {
		return false, fmt.Errorf("failed to reveal cell: %w", err)
	}
	return affected(result)
}

// CountCells returns the revealed and total cell counts of a board
func (r *GameRepository) CountCells(boardID int64) (revealed, total int, err error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0), COUNT(*)
		FROM cells
		WHERE board_id = ?
	`
	if err := r.db.QueryRow(query, string(models.CellRevealed), boardID).Scan(&revealed, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to count cells: %w", err)
	}
	return revealed, total, nil
}

// InsertHeroes stores the heroes of a game and sets their IDs
func (r *GameRepository) InsertHeroes(gameID int64, heroes []models.Hero) error {
	query := `
		INSERT INTO heroes (game_id, name, type, max_power, current_power, alive)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i := range heroes {
		h := &heroes[i]
		id, err := r.db.ExecReturningID(query, gameID, h.Name, int(h.Type), h.MaxPower, h.Power, h.Alive)
		if err != nil {
			return fmt.Errorf("failed to create hero %s: %w", h.Name, err)
		}
		h.ID = id
		h.GameID = gameID
	}
	return nil
}

const heroColumns = "id, game_id, name, type, max_power, current_power, alive"

func scanHero(row interface{ Scan(...any) error }) (*models.Hero, error) {
	hero := &models.Hero{}
	var heroType int
	if err := row.Scan(&hero.ID, &hero.GameID, &hero.Name, &heroType, &hero.MaxPower, &hero.Power, &hero.Alive); err != nil {
		return nil, err
	}
	hero.Type = models.HeroType(heroType)
	return hero, nil
}

// GetHeroes returns the heroes of a game ordered by type
func (r *GameRepository) GetHeroes(gameID int64) ([]models.Hero, error) {
	rows, err := r.db.Query("SELECT "+heroColumns+" FROM heroes WHERE game_id = ? ORDER BY type", gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query heroes: %w", err)
	}
	defer rows.Close()

	heroes := []models.Hero{}
	for rows.Next() {
		hero, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hero: %w", err)
		}
		heroes = append(heroes, *hero)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heroes: %w", err)
	}
	return heroes, nil
}

// GetHeroByType retrieves the hero of a game bound to the given type
func (r *GameRepository) GetHeroByType(gameID int64, heroType models.HeroType) (*models.Hero, error) {
	query := "SELECT " + heroColumns + " FROM heroes WHERE game_id = ? AND type = ?"
	hero, err := scanHero(r.db.QueryRow(query, gameID, int(heroType)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hero: %w", err)
	}
	return hero, nil
}

// UpdateHero persists a hero's current power and alive flag
func (r *GameRepository) UpdateHero(hero *models.Hero) error {
	query := `
		UPDATE heroes
		SET current_power = ?, alive = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, hero.Power, hero.Alive, hero.ID); err != nil {
		return fmt.Errorf("failed to update hero: %w", err)
	}
	return nil
}

// CountAliveHeroes counts the heroes of a game that are still in play
func (r *GameRepository) CountAliveHeroes(gameID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM heroes WHERE game_id = ? AND alive = ?", gameID, true).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count alive heroes: %w", err)
	}
	return count, nil
}

// CreateRound appends a round to a game
func (r *GameRepository) CreateRound(gameID int64, number, lossStreak int) (*models.Round, error) {
	query := `
		INSERT INTO rounds (game_id, number, loss_streak)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, gameID, number, lossStreak)
	if err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	return &models.Round{
		ID:         id,
		GameID:     gameID,
		Number:     number,
		LossStreak: lossStreak,
		CreatedAt:  time.Now(),
	}, nil
}

const roundColumns = "id, game_id, number, loss_streak, created_at"

func scanRound(row interface{ Scan(...any) error }) (*models.Round, error) {
	round := &models.Round{}
	if err := row.Scan(&round.ID, &round.GameID, &round.Number, &round.LossStreak, &round.CreatedAt); err != nil {
		return nil, err
	}
	return round, nil
}

// CurrentRound retrieves the most recent round of a game
func (r *GameRepository) CurrentRound(gameID int64) (*models.Round, error) {
	query := "SELECT " + roundColumns + " FROM rounds WHERE game_id = ? ORDER BY number DESC LIMIT 1"
	round, err := scanRound(r.db.QueryRow(query, gameID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current round: %w", err)
	}
	return round, nil
}

// GetRounds returns every round of a game in order
func (r *GameRepository) GetRounds(gameID int64) ([]models.Round, error) {
	rows, err := r.db.Query("SELECT "+roundColumns+" FROM rounds WHERE game_id = ? ORDER BY number", gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := []models.Round{}
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, *round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}
	return rounds, nil
}

// UpdateRoundStreak sets the loss streak carried by a round
func (r *GameRepository) UpdateRoundStreak(roundID int64, lossStreak int) error {
	if _, err := r.db.Exec("UPDATE rounds SET loss_streak = ? WHERE id = ?", lossStreak, roundID); err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	return nil
}

// InsertAttempt appends an attempt to the log and sets its ID
func (r *GameRepository) InsertAttempt(a *models.Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO attempts (game_id, round_id, cell_id, hero_id, outcome, probability,
			required_effort, power_before, power_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		a.GameID, a.RoundID, a.CellID, a.HeroID, string(a.Outcome), a.Probability,
		a.RequiredEffort, a.PowerBefore, a.PowerAfter, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	a.ID = id
	return nil
}

// ListAttempts returns the attempt log of a game, oldest first
func (r *GameRepository) ListAttempts(gameID int64) ([]models.Attempt, error) {
	query := `
		SELECT id, game_id, round_id, cell_id, hero_id, outcome, probability,
			required_effort, power_before, power_after, created_at
		FROM attempts
		WHERE game_id = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.Attempt{}
	for rows.Next() {
		var a models.Attempt
		var outcome string
		if err := rows.Scan(
			&a.ID, &a.GameID, &a.RoundID, &a.CellID, &a.HeroID, &outcome, &a.Probability,
			&a.RequiredEffort, &a.PowerBefore, &a.PowerAfter, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Outcome = models.Outcome(outcome)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}
	return attempts, nil
}
