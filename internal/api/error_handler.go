package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/changecomm/admin-system/internal/core/domain"
)

// errorResponse is the canonical error envelope: the same {status, message}
// shape as success responses, with status false.
type errorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"status": false, "message": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Status: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "A user with this email already exists"
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid or expired verification code"
	case errors.Is(err, domain.ErrResetNotAllowed):
		return http.StatusForbidden, "Verify the code sent to your email first"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access forbidden"
	case errors.Is(err, domain.ErrSettingsNotFound):
		return http.StatusNotFound, "System settings not found"
	case errors.Is(err, domain.ErrSettingsExists):
		return http.StatusConflict, "System settings already initialized"
	case errors.Is(err, domain.ErrSettingsVersionConflict):
		return http.StatusConflict, "Settings were changed by another editor, reload and try again"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong"
}
