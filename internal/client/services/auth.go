// Package services contains application services for the MyDrive client.
// This file defines the authentication service: login, registration with
// username suggestions, and session restore/logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mydrive/internal/client/client"
	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: check the form, authenticate against the server, persist the session.
//   - Register: create a new user; a taken username comes back with suggestions.
//   - Restore: pick up a persisted, unexpired session.
//   - Logout: drop the session everywhere.
//
// All methods must honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*models.Identity, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	Restore(ctx context.Context) (*models.Identity, error)
	Logout(ctx context.Context) error
	Current() *models.Identity
}

// SessionStore is the part of session.Store the service needs.
type SessionStore interface {
	Restore(ctx context.Context) (*models.Identity, error)
	Login(ctx context.Context, id models.Identity) error
	Logout(ctx context.Context) error
	Current() *models.Identity
}

// AuthError carries a user-facing message. Suggestions is set when the
// requested username is already taken.
type AuthError struct {
	Message     string
	Suggestions []string
	Err         error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

var (
	ErrMissingIdentifier = &AuthError{Message: "Please provide a username or email"}
	ErrMissingPassword   = &AuthError{Message: "Password is required"}
	ErrMissingFields     = &AuthError{Message: "All fields are required for registration"}
	ErrIncompleteLogin   = &AuthError{Message: "Invalid login response: User data incomplete"}
)

const (
	serverUsernameTaken = "Username already taken"
	serverEmailTaken    = "Email already taken"
)

// SuggestionCount is how many alternatives are offered for a taken username.
const SuggestionCount = 3

// Suggester produces alternative usernames for base.
type Suggester func(base string) []string

// RandomSuggestions appends a random number below 1000 and the suggestion
// index to base, e.g. "alice4170".
func RandomSuggestions(base string) []string {
	out := make([]string, SuggestionCount)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d%d", base, rand.IntN(1000), i)
	}
	return out
}

type authService struct {
	client  client.Client
	session SessionStore
	suggest Suggester
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store. A nil suggest means RandomSuggestions.
func NewAuthService(c client.Client, s SessionStore, suggest Suggester, log logging.Logger) AuthService {
	if suggest == nil {
		suggest = RandomSuggestions
	}
	return &authService{client: c, session: s, suggest: suggest, log: log}
}

// Login sends identifier as an email when it contains "@", otherwise as a
// username. A response without id or username is rejected.
func (a *authService) Login(ctx context.Context, identifier, password string) (*models.Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrMissingIdentifier
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	id, err := a.client.Login(ctx, identifier, password)
	if err != nil {
		a.log.Debug(ctx, "login failed", "identifier", identifier, "error", err)
		return nil, &AuthError{Message: client.Describe(err), Err: err}
	}
	if !id.Valid() {
		a.log.Warn(ctx, "login response missing fields", "id", id.ID, "username", id.Username)
		return nil, ErrIncompleteLogin
	}

	if err := a.session.Login(ctx, id); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	a.log.Info(ctx, "logged in", "username", id.Username)
	return &id, nil
}

// Register returns the server's confirmation text.
func (a *authService) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", ErrMissingFields
	}

	msg, err := a.client.Register(ctx, username, email, password)
	if err == nil {
		return msg, nil
	}

	if client.HasStatus(err, http.StatusConflict) {
		se, _ := client.AsServerError(err)
		switch se.Message {
		case serverUsernameTaken:
			return "", &AuthError{
				Message:     "Username is already taken",
				Suggestions: a.suggest(username),
				Err:         err,
			}
		case serverEmailTaken:
			return "", &AuthError{Message: "Email is already taken", Err: err}
		}
	}

	return "", &AuthError{Message: client.Describe(err), Err: err}
}

func (a *authService) Restore(ctx context.Context) (*models.Identity, error) {
	return a.session.Restore(ctx)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) Current() *models.Identity {
	return a.session.Current()
}

// IsAuthError reports whether err carries a user-facing auth message.
func IsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
