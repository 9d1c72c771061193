package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mydrive/internal/client/services"
	"github.com/dmitrijs2005/mydrive/internal/client/views"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, an email and a password and creates the
// account. A taken username is reported together with alternatives.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	msg, err := a.auth.Register(ctx, username, email, password)
	if err != nil {
		var ae *services.AuthError
		if errors.As(err, &ae) && len(ae.Suggestions) > 0 {
			fmt.Fprintf(a.out, "Available usernames: %s\n", strings.Join(ae.Suggestions, ", "))
		}
		return err
	}

	fmt.Fprintln(a.out, msg)
	fmt.Fprintln(a.out, "You can now login")
	return nil
}

// Login prompts for a username or email and a password. On success the
// drive view opens.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	id, err := a.auth.Login(ctx, identifier, password)
	if err != nil {
		return err
	}

	a.resetViews()
	fmt.Fprintf(a.out, "Welcome, %s!\n", id.Username)
	return a.open(ctx, views.PathDrive)
}

// Logout ends the session and returns to the login view. The in-memory
// session is gone even when removing the saved record fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	a.resetViews()
	a.router.Navigate(views.PathLogin)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
