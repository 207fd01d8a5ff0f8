// Package respond writes JSON responses and maps use case errors to HTTP statuses.
// Error bodies have the shape {"error": "<message>"} and pass through SanitizeString,
// so connection strings never reach a client.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"oed-api/internal/domain/entity"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON encodes v with the given status. A nil v writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	// headers are gone at this point; logging is all that is left
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes err's sanitized message under the given status.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, errorBody{Error: SanitizeError(err)})
}

// AppError pairs the message shown to clients with the underlying cause.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.UserMsg
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// Classify picks the status for err. An AppError already in the chain wins;
// validation errors are 422 with their own text; everything else is a 500 reading
// "<prefix>: <sanitized cause>".
func Classify(err error, prefix string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if entity.IsValidation(err) {
		return NewAppError(http.StatusUnprocessableEntity, err.Error(), err)
	}
	return NewAppError(http.StatusInternalServerError, prefix+": "+SanitizeError(err), err)
}

// Fail classifies err and writes it. 5xx causes are also logged. A nil err is a no-op.
func Fail(w http.ResponseWriter, err error, prefix string) {
	if err == nil {
		return
	}
	appErr := Classify(err, prefix)
	if appErr.Code >= http.StatusInternalServerError {
		slog.Default().Error("internal server error",
			slog.Int("code", appErr.Code),
			slog.String("error", SanitizeError(appErr.Err)))
	}
	JSON(w, appErr.Code, errorBody{Error: SanitizeString(appErr.UserMsg)})
}
