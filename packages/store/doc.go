// Package store persists request definitions and response history in SQLite
// and keeps response bodies as files on disk.
//
// Responses are append-only: a send adds a row and never rewrites an older
// one, so FindByRequestID always reflects the order in which exchanges
// completed.
package store
