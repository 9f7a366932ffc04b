// Package roster persists the user-curated list of tracked usernames.
//
// The list is ordered, duplicate-free and capped; only canonical (validated,
// trimmed) usernames ever enter it. Validation failure and the capacity limit
// are the only reportable errors in the whole pipeline — they surface to the
// add-streamer UI, unlike transport faults which degrade silently.
package roster
