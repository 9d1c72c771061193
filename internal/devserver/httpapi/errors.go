package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mydrive/internal/devserver/storage"
)

// Structured codes sent with join failures.
const (
	CodeGroupNotFound     = "group_not_found"
	CodeIncorrectPassword = "incorrect_password"
	CodeInvalidGroupID    = "invalid_group_id"
)

// statusError is an error with the HTTP status it maps to.
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string { return e.Message }

func badRequest(msg string) error {
	return &statusError{Status: http.StatusBadRequest, Message: msg}
}

// statusOf picks the response status for err.
func statusOf(err error) int {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return se.Status
	case errors.Is(err, storage.ErrUsernameTaken), errors.Is(err, storage.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, storage.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrIncorrectPassword):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrFileNotFound),
		errors.Is(err, storage.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrNotMember):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError sends err as a plain text body.
func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	http.Error(w, msg, status)
}

type codedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeCodedError sends {"code","message"} so clients need not parse the
// message text.
func writeCodedError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, codedError{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
