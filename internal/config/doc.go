// Package config loads and watches the streamsider configuration file
// (config.yaml).
//
// Top-level types:
//   - Config{Server, Storage, Poll, Kick} — full config tree parsed from YAML
//   - ServerConfig — listen_addr for the HTTP API and WebSocket hub
//   - StorageConfig — path of the SQLite database file
//   - PollConfig — interval, full_refresh_every, cache_ttl, max_streamers
//   - KickConfig — base_url, request_timeout, user_agent for the upstream API
//
// Load(path) reads the YAML file, applies defaults (180s interval, 10m TTL,
// every 3rd cycle full, 10 tracked streamers, :8130 listen), then validates
// required fields and bounds.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create pattern
// used by atomic-save editors (vim, VS Code) by re-adding the watch after
// a rename event.
package config
