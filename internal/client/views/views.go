package views

import (
	"github.com/dmitrijs2005/mydrive/internal/client/client"
	"github.com/dmitrijs2005/mydrive/internal/client/models"
)

// SessionSource supplies the logged in identity; session.Store implements it.
type SessionSource interface {
	Current() *models.Identity
}

// Error is a user-facing failure of a view action.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

const msgNoUsername = "No username available"

// failure builds "<prefix><description of err>".
func failure(prefix string, err error) *Error {
	return &Error{Message: prefix + client.Describe(err), Err: err}
}

func message(msg string) *Error {
	return &Error{Message: msg}
}
