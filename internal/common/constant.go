// Package common contains constants and helpers shared by the MyDrive
// client and dev server.
package common

// RequestIDHeaderName is the HTTP header carrying the per-request
// identifier generated by the API client and echoed in server logs.
const RequestIDHeaderName = "X-Request-ID"

// AuthSessionKey is the fixed metadata key under which the client keeps
// the persisted session record.
const AuthSessionKey = "authSession"
