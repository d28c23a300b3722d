package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hobbyte/internal/database"
	"hobbyte/internal/models"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.CreateUser("ana@example.com", "hash", models.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("CreateUser() returned zero ID")
	}

	got, err := repo.GetUserByEmail("ana@example.com")
	if err != nil || got == nil {
		t.Fatalf("GetUserByEmail() = %v, %v", got, err)
	}
	if got.Role != models.RoleAdmin || got.ID != user.ID {
		t.Errorf("GetUserByEmail() = %+v", got)
	}

	missing, err := repo.GetUserByID(9999)
	if err != nil || missing != nil {
		t.Errorf("GetUserByID(missing) = %v, %v; want nil, nil", missing, err)
	}

	if _, err := repo.CreateUser("ana@example.com", "hash", models.RolePlayer); !errors.Is(err, ErrEmailExists) {
		t.Errorf("CreateUser() with duplicate email error = %v, want ErrEmailExists", err)
	}

	// The unique index is reported the same way inside a transaction
	err = db.WithTx(func(tx *database.Tx) error {
		_, err := NewUserRepository(tx).CreateUser("ana@example.com", "hash", models.RolePlayer)
		return err
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("CreateUser() in transaction with duplicate email error = %v, want ErrEmailExists", err)
	}

	ok, err := repo.UpdateRole(user.ID, models.RolePlayer)
	if err != nil || !ok {
		t.Fatalf("UpdateRole() = %v, %v", ok, err)
	}
	if ok, _ := repo.UpdateRole(9999, models.RoleAdmin); ok {
		t.Error("UpdateRole() on missing user reported a change")
	}

	if err := repo.UpdatePassword(user.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	got, _ = repo.GetUserByID(user.ID)
	if got.PasswordHash != "new-hash" || got.Role != models.RolePlayer {
		t.Errorf("after updates user = %+v", got)
	}

	count, err := repo.CountUsers()
	if err != nil || count != 1 {
		t.Errorf("CountUsers() = %d, %v; want 1", count, err)
	}

	ok, err = repo.DeleteUser(user.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteUser() = %v, %v", ok, err)
	}
	if ok, _ := repo.DeleteUser(user.ID); ok {
		t.Error("second DeleteUser() reported a deletion")
	}
}

func TestSessionRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.CreateUser("bo@example.com", "hash", models.RolePlayer)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := repo.CreateSession("live", user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := repo.CreateSession("stale", user.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	n, err := repo.DeleteExpiredSessions()
	if err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpiredSessions() removed %d, want 1", n)
	}

	session, err := repo.GetSession("live")
	if err != nil || session == nil {
		t.Fatalf("GetSession(live) = %v, %v", session, err)
	}
	if session.UserID != user.ID {
		t.Errorf("session user = %d, want %d", session.UserID, user.ID)
	}

	if err := repo.DeleteSession("live"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if session, _ := repo.GetSession("live"); session != nil {
		t.Error("session still present after DeleteSession()")
	}
}

func createTestGame(t *testing.T, repo *GameRepository, userID int64, rows, cols int) (*models.Game, *models.Board) {
	t.Helper()

	game, err := repo.CreateGame("partida")
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	if err := repo.AddPlayer(game.ID, userID); err != nil {
		t.Fatalf("AddPlayer() error = %v", err)
	}
	board, err := repo.CreateBoard(game.ID, rows, cols)
	if err != nil {
		t.Fatalf("CreateBoard() error = %v", err)
	}

	var cells []models.Cell
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			cells = append(cells, models.Cell{X: x, Y: y, Type: models.HeroType(1 + (x+y)%3), Effort: 10})
		}
	}
	if err := repo.InsertCells(board.ID, cells); err != nil {
		t.Fatalf("InsertCells() error = %v", err)
	}
	return game, board
}

func TestGameRepositoryBoard(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	repo := NewGameRepository(db)

	user, _ := users.CreateUser("cai@example.com", "hash", models.RolePlayer)
	game, board := createTestGame(t, repo, user.ID, 12, 15)

	owner, err := repo.IsOwner(game.ID, user.ID)
	if err != nil || !owner {
		t.Errorf("IsOwner() = %v, %v; want true", owner, err)
	}
	if other, _ := repo.IsOwner(game.ID, user.ID+1); other {
		t.Error("IsOwner() true for another user")
	}

	// 180 cells spans more than one insert batch
	cells, err := repo.GetCells(board.ID)
	if err != nil {
		t.Fatalf("GetCells() error = %v", err)
	}
	if len(cells) != 180 {
		t.Fatalf("GetCells() returned %d cells, want 180", len(cells))
	}
	if cells[0].X != 0 || cells[0].Y != 0 || cells[179].X != 11 || cells[179].Y != 14 {
		t.Errorf("cells not in row-major order: first %+v last %+v", cells[0], cells[179])
	}

	cell, err := repo.GetCellAt(board.ID, 3, 4)
	if err != nil || cell == nil {
		t.Fatalf("GetCellAt() = %v, %v", cell, err)
	}
	if cell.Status != models.CellHidden || cell.RevealedAt != nil {
		t.Errorf("new cell = %+v, want hidden", cell)
	}

	ok, err := repo.MarkCellRevealed(cell.ID, time.Now())
	if err != nil || !ok {
		t.Fatalf("MarkCellRevealed() = %v, %v", ok, err)
	}
	if ok, _ := repo.MarkCellRevealed(cell.ID, time.Now()); ok {
		t.Error("second MarkCellRevealed() reported a change")
	}

	cell, _ = repo.GetCellAt(board.ID, 3, 4)
	if !cell.Revealed() || cell.RevealedAt == nil {
		t.Errorf("revealed cell = %+v", cell)
	}

	revealed, total, err := repo.CountCells(board.ID)
	if err != nil || revealed != 1 || total != 180 {
		t.Errorf("CountCells() = %d, %d, %v; want 1, 180", revealed, total, err)
	}

	summaries, err := repo.ListGamesForUser(user.ID)
	if err != nil || len(summaries) != 1 {
		t.Fatalf("ListGamesForUser() = %v, %v", summaries, err)
	}
	if s := summaries[0]; s.BoardID != board.ID || s.Rows != 12 || s.Columns != 15 || s.Revealed != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func TestGameRepositoryState(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	repo := NewGameRepository(db)

	user, _ := users.CreateUser("dan@example.com", "hash", models.RolePlayer)
	game, board := createTestGame(t, repo, user.ID, 2, 2)

	heroes := []models.Hero{
		{Name: "A", Type: models.HeroMagic, MaxPower: 50, Power: 50, Alive: true},
		{Name: "B", Type: models.HeroStrength, MaxPower: 50, Power: 50, Alive: true},
		{Name: "C", Type: models.HeroSkill, MaxPower: 50, Power: 50, Alive: true},
	}
	if err := repo.InsertHeroes(game.ID, heroes); err != nil {
		t.Fatalf("InsertHeroes() error = %v", err)
	}

	hero, err := repo.GetHeroByType(game.ID, models.HeroStrength)
	if err != nil || hero == nil || hero.ID != heroes[1].ID {
		t.Fatalf("GetHeroByType() = %+v, %v", hero, err)
	}
	hero.Power = 0
	hero.Alive = false
	if err := repo.UpdateHero(hero); err != nil {
		t.Fatalf("UpdateHero() error = %v", err)
	}
	alive, err := repo.CountAliveHeroes(game.ID)
	if err != nil || alive != 2 {
		t.Errorf("CountAliveHeroes() = %d, %v; want 2", alive, err)
	}

	first, err := repo.CreateRound(game.ID, 1, 0)
	if err != nil {
		t.Fatalf("CreateRound() error = %v", err)
	}
	if err := repo.UpdateRoundStreak(first.ID, 1); err != nil {
		t.Fatalf("UpdateRoundStreak() error = %v", err)
	}
	if _, err := repo.CreateRound(game.ID, 2, 1); err != nil {
		t.Fatalf("CreateRound() error = %v", err)
	}
	current, err := repo.CurrentRound(game.ID)
	if err != nil || current.Number != 2 || current.LossStreak != 1 {
		t.Errorf("CurrentRound() = %+v, %v", current, err)
	}

	cell, _ := repo.GetCellAt(board.ID, 0, 0)
	attempt := &models.Attempt{
		GameID: game.ID, RoundID: first.ID, CellID: cell.ID, HeroID: hero.ID,
		Outcome: models.OutcomeFailedAttempt, Probability: 90, RequiredEffort: 10,
		PowerBefore: 50, PowerAfter: 0,
	}
	if err := repo.InsertAttempt(attempt); err != nil {
		t.Fatalf("InsertAttempt() error = %v", err)
	}
	attempts, err := repo.ListAttempts(game.ID)
	if err != nil || len(attempts) != 1 || attempts[0].Outcome != models.OutcomeFailedAttempt {
		t.Errorf("ListAttempts() = %+v, %v", attempts, err)
	}

	open, _ := repo.CountOpenGames(user.ID)
	if open != 1 {
		t.Errorf("CountOpenGames() = %d, want 1", open)
	}
	if err := repo.UpdateGameStatus(game.ID, models.GameLost); err != nil {
		t.Fatalf("UpdateGameStatus() error = %v", err)
	}
	open, _ = repo.CountOpenGames(user.ID)
	if open != 0 {
		t.Errorf("CountOpenGames() after loss = %d, want 0", open)
	}

	stats, err := users.GetStats(user.ID)
	if err != nil || stats.Lost != 1 || stats.Won != 0 || stats.Open != 0 {
		t.Errorf("GetStats() = %+v, %v", stats, err)
	}

	locked, err := repo.LockGame(game.ID)
	if err != nil || locked == nil || locked.Status != models.GameLost {
		t.Errorf("LockGame() = %+v, %v", locked, err)
	}
}

func TestGameRepositoryInTransaction(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	user, _ := users.CreateUser("eve@example.com", "hash", models.RolePlayer)

	var gameID int64
	err := db.WithTx(func(tx *database.Tx) error {
		repo := NewGameRepository(tx)
		game, err := repo.CreateGame("rolled back")
		if err != nil {
			return err
		}
		gameID = game.ID
		if err := repo.AddPlayer(game.ID, user.ID); err != nil {
			return err
		}
		return errRollback
	})
	if err != errRollback {
		t.Fatalf("WithTx() error = %v, want errRollback", err)
	}

	game, err := NewGameRepository(db).GetGame(gameID)
	if err != nil || game != nil {
		t.Errorf("GetGame() after rollback = %+v, %v; want nil", game, err)
	}
}

var errRollback = errors.New("rollback")
