package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"hobbyte/internal/security"
	"hobbyte/internal/service"
	"hobbyte/internal/validation"
)

// errBadRequest marks request bodies that could not be decoded
var errBadRequest = errors.New(ErrInvalidJSON)

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Error(logMsg, zap.Int("status", status), zap.Error(err))
	}

	respondJSON(w, status, map[string]string{"error": userMsg})
}

// respondWithServiceError maps an error returned by a service to its status.
// Only unexpected errors are logged.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		respondWithError(w, logger, status, msg, "", err)
		return
	}
	respondWithError(w, logger, status, msg, "", nil)
}

// statusFor is the single place where errors become HTTP statuses
func statusFor(err error) (int, string) {
	var validationErr validation.ValidationError
	var stateErr *service.GameStateError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Error()
	case errors.As(err, &stateErr):
		return http.StatusConflict, stateErr.Error()
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrCellOutOfRange):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, security.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrCellNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrTooManyOpenGames),
		errors.Is(err, service.ErrCellRevealed),
		errors.Is(err, service.ErrCannotSelfDrop):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrBoardMissing):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, ErrInternalServerError
	}
}

// decodeJSON reads a JSON object into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errBadRequest
	}
	return nil
}
