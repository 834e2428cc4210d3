package http

import (
	"errors"
	"net/http"

	"fintrack/internal/assistant"
	"fintrack/internal/backup"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

var (
	validationErrors = []error{
		core.ErrInvalidAmount,
		core.ErrEmptyName,
		core.ErrEmptyCategory,
		core.ErrInvalidKind,
		core.ErrInvalidCategoryType,
		core.ErrInvalidDuration,
		core.ErrDescriptionTooLong,
		assistant.ErrEmptyQuestion,
	}
	notFoundErrors = []error{
		core.ErrGoalNotFound,
		core.ErrCategoryNotFound,
		core.ErrTransactionNotFound,
		core.ErrBackupNotFound,
	}
)

// statusFor maps a service error onto an HTTP status and the message shown
// to the client. Unknown errors are internal and their text is withheld.
func statusFor(err error) (int, string) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity, target.Error()
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, target.Error()
		}
	}
	switch {
	case errors.Is(err, services.ErrGoalClosed):
		return http.StatusConflict, services.ErrGoalClosed.Error()
	case errors.Is(err, backup.ErrInvalidFormat):
		return http.StatusBadRequest, backup.ErrInvalidFormat.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError logs internal failures with the request-scoped logger and
// writes the mapped error response.
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(),
			"Request failed", err, operation,
			applog.NewFields().WithUserID(UserID(r.Context())))
	}
	ErrorResponse(status, msg).Write(w)
}
