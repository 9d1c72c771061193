// Package models defines the client-side data types of the MyDrive CLI.
// None of them is authoritative: the server owns every entity and the
// client holds copies that are replaced on each fetch.
package models

import "time"

// Identity is the authenticated user. It does not change within a session.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Valid reports whether both id and username are set.
func (i Identity) Valid() bool {
	return i.ID != 0 && i.Username != ""
}

// Session is an Identity with an absolute expiry time.
type Session struct {
	Identity  Identity
	ExpiresAt time.Time
}

// Active reports whether the session is still usable at now.
func (s Session) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
