// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   *errBody `json:"error,omitempty"`
}

type errBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func BadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errBody{Code: "BAD_REQUEST", Message: message},
	})
}

func NotFound(w http.ResponseWriter, resource string) {
	writeJSON(w, http.StatusNotFound, envelope{
		Success: false,
		Error:   &errBody{Code: "NOT_FOUND", Message: resource + " not found"},
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "authentication required"
	}
	writeJSON(w, http.StatusUnauthorized, envelope{
		Success: false,
		Error:   &errBody{Code: "UNAUTHORIZED", Message: message},
	})
}

func Forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, envelope{
		Success: false,
		Error:   &errBody{Code: "FORBIDDEN", Message: message},
	})
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Error: &errBody{
			Code:    "INTERNAL",
			Message: "internal server error",
		},
	})
}

// JSONError renders an AppError with its own status and code. RedirectTo, if
// set via UnauthorizedRedirect, tells the client where to send the user.
func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		InternalServerError(w, err)
		return
	}

	writeJSON(w, appErr.Status, envelope{
		Success: false,
		Error:   &errBody{Code: appErr.Code, Message: appErr.Message},
	})
}

// UnauthorizedRedirect is the gate's terminal response: the error envelope
// plus the unauthenticated entry path the client should navigate to.
func UnauthorizedRedirect(w http.ResponseWriter, appErr *AppError, to string) {
	writeJSON(w, appErr.Status, envelope{
		Success: false,
		Error: &errBody{
			Code:     appErr.Code,
			Message:  appErr.Message,
			Redirect: to,
		},
	})
}
