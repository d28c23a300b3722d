package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"hobbyte/internal/database"
	"hobbyte/internal/models"
	"hobbyte/internal/repository"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string       `json:"version"`
	ExportedAt   time.Time    `json:"exported_at"`
	DatabaseType string       `json:"database_type"`
	Users        []UserBackup `json:"users"`
	Games        []GameBackup `json:"games"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GameBackup is a game with everything it owns
type GameBackup struct {
	ID        int64           `json:"id"`
	OwnerID   int64           `json:"owner_id"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Rows      int             `json:"rows"`
	Columns   int             `json:"columns"`
	Cells     []CellBackup    `json:"cells"`
	Heroes    []HeroBackup    `json:"heroes"`
	Rounds    []RoundBackup   `json:"rounds"`
	Attempts  []AttemptBackup `json:"attempts"`
}

// CellBackup represents a cell; cells are referenced by position
type CellBackup struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Type       int        `json:"type"`
	Effort     int        `json:"effort"`
	Status     string     `json:"status"`
	RevealedAt *time.Time `json:"revealed_at,omitempty"`
}

// HeroBackup represents a hero; heroes are referenced by type
type HeroBackup struct {
	Name     string `json:"name"`
	Type     int    `json:"type"`
	MaxPower int    `json:"max_power"`
	Power    int    `json:"power"`
	Alive    bool   `json:"alive"`
}

// RoundBackup represents a round; rounds are referenced by number
type RoundBackup struct {
	Number     int `json:"number"`
	LossStreak int `json:"loss_streak"`
}

// AttemptBackup represents one attempt of the log
type AttemptBackup struct {
	Round          int       `json:"round"`
	CellX          int       `json:"cell_x"`
	CellY          int       `json:"cell_y"`
	HeroType       int       `json:"hero_type"`
	Outcome        string    `json:"outcome"`
	Probability    int       `json:"probability"`
	RequiredEffort int       `json:"required_effort"`
	PowerBefore    int       `json:"power_before"`
	PowerAfter     int       `json:"power_after"`
	CreatedAt      time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db     *database.DB
	logger *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{db: db, logger: logger}
}

// ExportFile writes a complete backup of the database to outputPath
func (s *BackupService) ExportFile(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return s.Export(file)
}

// Export writes a complete backup of the database as indented JSON
func (s *BackupService) Export(w io.Writer) error {
	s.logger.Info("starting database export")

	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportGames(backup); err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info("database exported",
		zap.Int("users", len(backup.Users)),
		zap.Int("games", len(backup.Games)),
	)
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	users, err := repository.NewUserRepository(s.db).GetAllUsers()
	if err != nil {
		return err
	}
	backup.Users = make([]UserBackup, 0, len(users))
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         string(u.Role),
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportGames(backup *BackupData) error {
	repo := repository.NewGameRepository(s.db)

	ids, err := repo.ListGameIDs()
	if err != nil {
		return err
	}

	backup.Games = make([]GameBackup, 0, len(ids))
	for _, id := range ids {
		g, err := exportGame(repo, id)
		if err != nil {
			return fmt.Errorf("game %d: %w", id, err)
		}
		if g != nil {
			backup.Games = append(backup.Games, *g)
		}
	}
	return nil
}

func exportGame(repo *repository.GameRepository, gameID int64) (*GameBackup, error) {
	game, err := repo.GetGame(gameID)
	if err != nil || game == nil {
		return nil, err
	}
	ownerID, err := repo.GetOwnerID(gameID)
	if err != nil {
		return nil, err
	}

	g := &GameBackup{
		ID:        game.ID,
		OwnerID:   ownerID,
		Name:      game.Name,
		Status:    string(game.Status),
		CreatedAt: game.CreatedAt,
		UpdatedAt: game.UpdatedAt,
	}

	cellsByID := map[int64]models.Cell{}
	board, err := repo.GetBoardByGame(gameID)
	if err != nil {
		return nil, err
	}
	if board != nil {
		g.Rows, g.Columns = board.Rows, board.Columns
		cells, err := repo.GetCells(board.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range cells {
			cellsByID[c.ID] = c
			g.Cells = append(g.Cells, CellBackup{
				X: c.X, Y: c.Y, Type: int(c.Type), Effort: c.Effort,
				Status: string(c.Status), RevealedAt: c.RevealedAt,
			})
		}
	}

	heroes, err := repo.GetHeroes(gameID)
	if err != nil {
		return nil, err
	}
	heroTypes := map[int64]int{}
	for _, h := range heroes {
		heroTypes[h.ID] = int(h.Type)
		g.Heroes = append(g.Heroes, HeroBackup{
			Name: h.Name, Type: int(h.Type), MaxPower: h.MaxPower, Power: h.Power, Alive: h.Alive,
		})
	}

	rounds, err := repo.GetRounds(gameID)
	if err != nil {
		return nil, err
	}
	roundNumbers := map[int64]int{}
	for _, r := range rounds {
		roundNumbers[r.ID] = r.Number
		g.Rounds = append(g.Rounds, RoundBackup{Number: r.Number, LossStreak: r.LossStreak})
	}

	attempts, err := repo.ListAttempts(gameID)
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		cell := cellsByID[a.CellID]
		g.Attempts = append(g.Attempts, AttemptBackup{
			Round:          roundNumbers[a.RoundID],
			CellX:          cell.X,
			CellY:          cell.Y,
			HeroType:       heroTypes[a.HeroID],
			Outcome:        string(a.Outcome),
			Probability:    a.Probability,
			RequiredEffort: a.RequiredEffort,
			PowerBefore:    a.PowerBefore,
			PowerAfter:     a.PowerAfter,
			CreatedAt:      a.CreatedAt,
		})
	}

	return g, nil
}

// ImportFile restores a backup file
func (s *BackupService) ImportFile(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.Import(file)
}

// Import restores a backup in a single transaction. Rows get fresh IDs; users
// whose email already exists are reused, so importing merges with existing data.
func (s *BackupService) Import(r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	s.logger.Info("starting database import",
		zap.String("version", backup.Version),
		zap.Time("exported_at", backup.ExportedAt),
	)

	return s.db.WithTx(func(tx *database.Tx) error {
		userIDs, err := importUsers(tx, backup.Users)
		if err != nil {
			return fmt.Errorf("failed to import users: %w", err)
		}

		repo := repository.NewGameRepository(tx)
		imported := 0
		for _, g := range backup.Games {
			ownerID, ok := userIDs[g.OwnerID]
			if !ok {
				s.logger.Warn("skipping game without owner", zap.Int64("game_id", g.ID))
				continue
			}
			if err := importGame(repo, g, ownerID); err != nil {
				return fmt.Errorf("failed to import game %d: %w", g.ID, err)
			}
			imported++
		}

		s.logger.Info("database imported",
			zap.Int("users", len(userIDs)),
			zap.Int("games", imported),
		)
		return nil
	})
}

// importUsers returns the mapping from backup user IDs to database IDs
func importUsers(tx *database.Tx, users []UserBackup) (map[int64]int64, error) {
	repo := repository.NewUserRepository(tx)
	ids := make(map[int64]int64, len(users))

	for _, u := range users {
		existing, err := repo.GetUserByEmail(u.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ids[u.ID] = existing.ID
			continue
		}

		query := `
			INSERT INTO users (email, password_hash, role, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`
		id, err := tx.ExecReturningID(query, u.Email, u.PasswordHash, string(models.ParseRole(u.Role)), u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", u.ID, err)
		}
		ids[u.ID] = id
	}
	return ids, nil
}

func importGame(repo *repository.GameRepository, g GameBackup, ownerID int64) error {
	game := &models.Game{
		Name:      g.Name,
		Status:    models.GameStatus(g.Status),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if err := repo.InsertGame(game); err != nil {
		return err
	}
	if err := repo.AddPlayer(game.ID, ownerID); err != nil {
		return err
	}

	cellIDs := map[[2]int]int64{}
	if g.Rows > 0 && g.Columns > 0 {
		board, err := repo.CreateBoard(game.ID, g.Rows, g.Columns)
		if err != nil {
			return err
		}
		cells := make([]models.Cell, 0, len(g.Cells))
		for _, c := range g.Cells {
			cells = append(cells, models.Cell{
				X: c.X, Y: c.Y, Type: models.HeroType(c.Type), Effort: c.Effort,
				Status: models.CellStatus(c.Status), RevealedAt: c.RevealedAt,
			})
		}
		if err := repo.InsertCells(board.ID, cells); err != nil {
			return err
		}
		stored, err := repo.GetCells(board.ID)
		if err != nil {
			return err
		}
		for _, c := range stored {
			cellIDs[[2]int{c.X, c.Y}] = c.ID
		}
	}

	heroes := make([]models.Hero, 0, len(g.Heroes))
	for _, h := range g.Heroes {
		heroes = append(heroes, models.Hero{
			Name: h.Name, Type: models.HeroType(h.Type), MaxPower: h.MaxPower, Power: h.Power, Alive: h.Alive,
		})
	}
	if err := repo.InsertHeroes(game.ID, heroes); err != nil {
		return err
	}
	heroIDs := map[int]int64{}
	for _, h := range heroes {
		heroIDs[int(h.Type)] = h.ID
	}

	roundIDs := map[int]int64{}
	for _, r := range g.Rounds {
		round, err := repo.CreateRound(game.ID, r.Number, r.LossStreak)
		if err != nil {
			return err
		}
		roundIDs[r.Number] = round.ID
	}

	for _, a := range g.Attempts {
		attempt := &models.Attempt{
			GameID:         game.ID,
			RoundID:        roundIDs[a.Round],
			CellID:         cellIDs[[2]int{a.CellX, a.CellY}],
			HeroID:         heroIDs[a.HeroType],
			Outcome:        models.Outcome(a.Outcome),
			Probability:    a.Probability,
			RequiredEffort: a.RequiredEffort,
			PowerBefore:    a.PowerBefore,
			PowerAfter:     a.PowerAfter,
			CreatedAt:      a.CreatedAt,
		}
		if attempt.RoundID == 0 || attempt.CellID == 0 || attempt.HeroID == 0 {
			return fmt.Errorf("attempt on (%d, %d) references missing rows", a.CellX, a.CellY)
		}
		if err := repo.InsertAttempt(attempt); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll deletes every user and game. Sessions and game-owned rows go with
// them through cascading foreign keys.
func (s *BackupService) ClearAll() error {
	return s.db.WithTx(func(tx *database.Tx) error {
		for _, table := range []string{"games", "users"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
			s.logger.Info("cleared table", zap.String("table", table))
		}
		return nil
	})
}
