// Package client contains the client-side building blocks for MyDrive.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface) for the MyDrive HTTP
//     server: login and registration, file listing, upload, download,
//     deletion and favourites, and the group and message endpoints.
//  2. A net/http implementation (see HTTPClient). Each operation is one
//     request against a fixed base URL with no retries. Requests carry an
//     X-Request-ID header and are validated locally before being sent.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite database and applies the embedded goose migrations.
//
// # Error Handling
//
//   - ErrValidation: the request was rejected locally, nothing was sent.
//   - ErrNoResponse: the server could not be reached.
//   - *ServerError: the server answered with a non-2xx status; its Message
//     and Code come from the response body.
//
// Upload and download report progress as an integer percentage through an
// optional netx.ProgressFunc. Reports never decrease.
package client
