package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_TYPE", "SESSION_DURATION", "MAX_OPEN_GAMES", "MAX_BOARD_SIZE", "TRUST_PROXY"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.SessionDuration != 24*time.Hour {
		t.Errorf("SessionDuration = %v, want 24h", cfg.SessionDuration)
	}
	if cfg.MaxOpenGames != 2 {
		t.Errorf("MaxOpenGames = %d, want 2", cfg.MaxOpenGames)
	}
	if cfg.MaxBoardSize != 50 {
		t.Errorf("MaxBoardSize = %d, want 50", cfg.MaxBoardSize)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy = true, want false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_DURATION", "90m")
	t.Setenv("MAX_OPEN_GAMES", "5")
	t.Setenv("MAX_BOARD_SIZE", "not-a-number")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.SessionDuration != 90*time.Minute {
		t.Errorf("SessionDuration = %v, want 90m", cfg.SessionDuration)
	}
	if cfg.MaxOpenGames != 5 {
		t.Errorf("MaxOpenGames = %d, want 5", cfg.MaxOpenGames)
	}
	if cfg.MaxBoardSize != 50 {
		t.Errorf("MaxBoardSize = %d, want fallback 50", cfg.MaxBoardSize)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
}
