package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation is returned before any request is sent when the
	// request fails local validation.
	ErrValidation = errors.New("invalid request")
	// ErrNoResponse means the request never produced an HTTP response.
	ErrNoResponse = errors.New("no response from server")
)

// ServerError is a non-2xx response. Message is taken from the body: a JSON
// object's "message" field, a JSON string, or the raw text.
type ServerError struct {
	StatusCode int
	Message    string
	// Code is the machine readable "code" field when the server sent one.
	Code string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// AsServerError unwraps err into a *ServerError.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HasStatus reports whether err is a ServerError with the given status.
func HasStatus(err error, status int) bool {
	se, ok := AsServerError(err)
	return ok && se.StatusCode == status
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func newServerError(status int, body []byte) *ServerError {
	se := &ServerError{StatusCode: status}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return se
	}

	switch trimmed[0] {
	case '{':
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil {
			se.Code = eb.Code
			se.Message = eb.Message
			if se.Message == "" {
				se.Message = eb.Error
			}
			return se
		}
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			se.Message = s
			return se
		}
	}

	se.Message = trimmed
	return se
}

// Describe renders err for the user: the server's message for a
// ServerError, "Network error" when no response arrived, and the error
// text otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := AsServerError(err); ok {
		if se.Message == "" {
			return "Unknown server error"
		}
		return se.Message
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	case errors.Is(err, ErrNoResponse):
		return "Network error"
	}
	return err.Error()
}
