package service

import (
	"errors"
	"fmt"

	"hobbyte/internal/credentials"
	"hobbyte/internal/models"
	"hobbyte/internal/repository"
	"hobbyte/internal/validation"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCannotSelfDrop = errors.New("admins cannot delete their own account")
)

// CreatedUser is an account created by an admin. TemporaryPassword is only
// set when the admin did not provide one.
type CreatedUser struct {
	User              *models.User
	TemporaryPassword string
}

// UserService covers the admin user management and the per-user profile
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns every account, newest first
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAllUsers()
}

// CreateUser creates an account with an explicit role. An empty password is
// replaced by a generated temporary one.
func (s *UserService) CreateUser(email, password string, role models.Role) (*CreatedUser, error) {
	email = normalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	temporary := ""
	if password == "" {
		generated, err := credentials.GenerateTemporaryPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		password = generated
		temporary = generated
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	user, err := createUser(s.userRepo, email, password, role)
	if err != nil {
		return nil, err
	}
	return &CreatedUser{User: user, TemporaryPassword: temporary}, nil
}

// ChangeRole sets the role of an account
func (s *UserService) ChangeRole(userID int64, role models.Role) error {
	ok, err := s.userRepo.UpdateRole(userID, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes an account on behalf of actorID
func (s *UserService) DeleteUser(actorID, userID int64) error {
	if actorID == userID {
		return ErrCannotSelfDrop
	}
	ok, err := s.userRepo.DeleteUser(userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// Stats counts the user's won, lost and open games
func (s *UserService) Stats(userID int64) (*models.UserStats, error) {
	return s.userRepo.GetStats(userID)
}
