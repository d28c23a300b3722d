package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hobbyte/internal/database"
	"hobbyte/internal/models"
	"hobbyte/internal/repository"
	"hobbyte/internal/security"
	"hobbyte/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// LoginResult is everything a client receives after a successful login
type LoginResult struct {
	Session        *models.Session
	User           *models.User
	Token          string
	TokenExpiresAt time.Time
}

// AuthService handles authentication business logic
type AuthService struct {
	db              *database.DB
	userRepo        *repository.UserRepository
	tokens          *security.TokenIssuer
	sessionDuration time.Duration

	// registerMu serializes the first-account check with its insert
	registerMu sync.Mutex
}

// NewAuthService creates a new auth service
func NewAuthService(db *database.DB, tokens *security.TokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		db:              db,
		userRepo:        repository.NewUserRepository(db),
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new player account. The very first account becomes admin.
func (s *AuthService) Register(email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	var user *models.User
	err = s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewUserRepository(tx)

		count, err := repo.CountUsers()
		if err != nil {
			return err
		}
		role := models.RolePlayer
		if count == 0 {
			role = models.RoleAdmin
		}

		user, err = insertUser(repo, email, passwordHash, role)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// createUser hashes the password and stores the account, rejecting taken emails
func createUser(repo *repository.UserRepository, email, password string, role models.Role) (*models.User, error) {
	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return insertUser(repo, email, passwordHash, role)
}

func insertUser(repo *repository.UserRepository, email, passwordHash string, role models.Role) (*models.User, error) {
	existingUser, err := repo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	user, err := repo.CreateUser(email, passwordHash, role)
	if errors.Is(err, repository.ErrEmailExists) {
		// Lost a race with a concurrent insert of the same email
		return nil, ErrEmailTaken
	}
	return user, err
}

// Login authenticates a user, creates a session and issues a bearer token
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	sessionID := security.NewSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, err
	}

	token, tokenExpiresAt, err := s.tokens.Issue(user.ID, string(user.Role), session.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Session:        session,
		User:           user,
		Token:          token,
		TokenExpiresAt: tokenExpiresAt,
	}, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.loadUser(session.UserID)
}

// AuthenticateToken verifies a bearer token and returns its user. The token is
// only as good as the session it was issued with, so logging out revokes it.
// The role is read from the database so role changes apply immediately.
func (s *AuthService) AuthenticateToken(token string) (*models.User, error) {
	identity, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	session, err := s.liveSession(identity.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != identity.UserID {
		return nil, security.ErrInvalidToken
	}
	return s.loadUser(session.UserID)
}

// liveSession loads a session, deleting and rejecting it once expired
func (s *AuthService) liveSession(sessionID string) (*models.Session, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *AuthService) loadUser(userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// ChangePassword replaces the password of an authenticated user
func (s *AuthService) ChangePassword(userID int64, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(userID, passwordHash)
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() (int64, error) {
	n, err := s.userRepo.DeleteExpiredSessions()
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return n, nil
}
