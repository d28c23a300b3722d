package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"hobbyte/internal/service"
)

// UserHandler serves the authenticated user's own account
type UserHandler struct {
	authService *service.AuthService
	userService *service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService, userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		logger:      logger,
	}
}

// Me returns the current user's profile
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newUserResponse(GetUserFromContext(r.Context())))
}

type passwordRequest struct {
	Password string `json:"password"`
}

// ChangePassword replaces the current user's password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	user := GetUserFromContext(r.Context())
	if err := h.authService.ChangePassword(user.ID, req.Password); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}

// Stats returns the current user's won, lost and open game counts
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.userService.Stats(GetUserFromContext(r.Context()).ID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, statsResponse{Won: stats.Won, Lost: stats.Lost, Open: stats.Open})
}
