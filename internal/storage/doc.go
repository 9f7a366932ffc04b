// Package storage is the durable key-value layer. It mirrors the two storage
// scopes the front-ends expect — "synced" for user-curated settings and
// "local" for the last published snapshot — in a single SQLite file, with
// JSON-encoded values keyed by (scope, key).
package storage
