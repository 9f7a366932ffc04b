// Package aggregate builds full streamer snapshots. For each tracked username
// it decides cached-vs-fetched, pulls both channel and livestream payloads
// when fetching, normalizes them into one record, and re-caches the result.
// Output order follows the tracked list; display sorting is the front-ends'
// concern.
package aggregate
