package handlers

const (
	SessionCookieName = "session_id"

	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
	ErrRouteNotFound       = "Route not found"

	// maxBodyBytes bounds every JSON request body
	maxBodyBytes = 1 << 20
)
