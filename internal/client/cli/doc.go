// Package cli provides the interactive MyDrive command-line client.
//
// It wires configuration, the local session database, the HTTP API client
// and the three views (auth, drive, groups) behind a REPL. Typical flow:
// restore a saved session, otherwise prompt for login, then browse files
// and groups until the user exits.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
