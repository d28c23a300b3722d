package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"hobbyte/internal/security"
	"hobbyte/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a player account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	respondJSON(w, http.StatusCreated, createdUserResponse{ID: user.ID})
}

// Login checks credentials, sets the session cookie and returns a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	http.SetCookie(w, security.SessionCookie(r, SessionCookieName, result.Session))
	respondJSON(w, http.StatusOK, loginResponse{
		OK:        true,
		User:      newUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.TokenExpiresAt,
	})
}

// Logout destroys the session, if any, and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondWithServiceError(w, h.logger, err)
			return
		}
	}

	http.SetCookie(w, security.ExpiredCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}
