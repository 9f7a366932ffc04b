// Package kick is the client for Kick's public channel and livestream
// endpoints.
//
// Kick has shipped several API generations that expose equivalent data under
// different paths and payload shapes, and its error pages sometimes arrive
// with a success status. The Client therefore tries an ordered candidate list
// per operation (newest generation first), sniffs HTML bodies, and returns
// the first parseable JSON payload — or nothing, never an error, since a
// failed lookup is an expected outcome.
//
//   - ChannelInfo / LivestreamInfo — raw payload retrieval with fallback
//   - Normalize — raw payloads → canonical Streamer record, tolerating the
//     pre-normalized, data-wrapped and flat snake_case livestream shapes
//   - Validate — existence check returning the canonical trimmed username
package kick
