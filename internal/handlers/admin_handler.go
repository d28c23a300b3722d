package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hobbyte/internal/models"
	"hobbyte/internal/service"
	"hobbyte/internal/validation"
)

// AdminHandler handles user management for admins
type AdminHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *service.UserService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers returns every account, newest first
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser creates an account with any role
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	role := models.RolePlayer
	if req.Role != "" {
		if err := validation.ValidateRole(req.Role); err != nil {
			respondWithServiceError(w, h.logger, err)
			return
		}
		role = models.Role(req.Role)
	}

	created, err := h.userService.CreateUser(req.Email, req.Password, role)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user created by admin",
		zap.Int64("user_id", created.User.ID),
		zap.Int64("admin_id", GetUserFromContext(r.Context()).ID),
	)
	respondJSON(w, http.StatusCreated, createdUserResponse{
		ID:       created.User.ID,
		Password: created.TemporaryPassword,
	})
}

type roleRequest struct {
	Role string `json:"role"`
}

// ChangeRole sets the role of an account
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	if err := validation.ValidateRole(req.Role); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	if err := h.userService.ChangeRole(userID, models.Role(req.Role)); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}

// DeleteUser removes an account other than the caller's
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	admin := GetUserFromContext(r.Context())
	if err := h.userService.DeleteUser(admin.ID, userID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user deleted", zap.Int64("user_id", userID), zap.Int64("admin_id", admin.ID))
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *AdminHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, http.StatusNotFound, service.ErrUserNotFound.Error(), "", nil)
		return 0, false
	}
	return id, true
}
