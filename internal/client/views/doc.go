// Package views holds the state behind each screen of the CLI.
//
// A view owns a cache of server data and a user-visible error string. Every
// mutation is sent to the server and followed by a refetch; nothing in a
// view is authoritative. Views do not share caches with each other.
//
// Errors are turned into messages at this boundary. Action methods return
// a *Error carrying the same message that Err reports, and never a raw
// transport error.
package views
