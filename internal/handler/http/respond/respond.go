// Package respond writes JSON responses and turns errors into messages that
// are safe to show to users of the bento-navi UI.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bento-navi/internal/domain/entity"
)

// JSON writes v as a JSON response with the given status code.
// HTML escaping is off so OGP image URLs keep their literal '&'.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// ヘッダー送信済みのためログのみ
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// safeFragments mark messages written for users (validation and lookup
// failures). Anything else may carry backend details and is replaced.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"already exists",
	"must be",
	"must use",
	"must have",
	"must not",
	"cannot be",
	"too long",
	"too short",
}

func isSafe(err error) bool {
	if _, ok := entity.AsValidationError(err); ok {
		return true
	}
	lowerMsg := strings.ToLower(err.Error())
	for _, frag := range safeFragments {
		if strings.Contains(lowerMsg, frag) {
			return true
		}
	}
	return false
}

// SafeError sanitizes error messages before returning them to users.
// Validation errors and errors whose message reads as a user-facing
// constraint are returned as-is with 4xx codes. Everything else, and every
// 5xx, becomes "internal server error" with the masked details logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	if code < 500 && isSafe(err) {
		JSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	UserMsg string // Message to display to users
	Err     error  // Internal error (logged for debugging)
	Code    int    // HTTP status code
}

// Error returns the internal error message, or the user message when there
// is no internal error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// SafeErrorV2 handles errors with AppError support.
// An AppError anywhere in the chain is answered with its own code and user
// message and its internal error is logged masked. Other errors fall back to
// SafeError with the given code.
func SafeErrorV2(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		SafeError(w, code, err)
		return
	}

	if appErr.Err != nil {
		slog.Default().Error("application error",
			slog.String("status", http.StatusText(appErr.Code)),
			slog.Int("code", appErr.Code),
			slog.String("user_message", appErr.UserMsg),
			slog.String("error", SanitizeError(appErr.Err)))
	}
	JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
}
