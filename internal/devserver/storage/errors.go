package storage

import "errors"

var (
	ErrUsernameTaken      = errors.New("Username already taken")
	ErrEmailTaken         = errors.New("Email already taken")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUserNotFound       = errors.New("User not found")
	ErrFileNotFound       = errors.New("File not found")
	ErrGroupNotFound      = errors.New("Group not found")
	ErrIncorrectPassword  = errors.New("Incorrect password")
	ErrNotMember          = errors.New("User is not a member of this group")
)
