// Package api is the HTTP surface for streamsider's front-ends. Each route
// mirrors one of the request/response messages the sidebar and popup exchange
// with the background process:
//
//	GET    /api/v1/streamers[?force=true]  — full ordered snapshot
//	POST   /api/v1/streamers               — add a streamer (404 not found,
//	                                         409 list at capacity)
//	DELETE /api/v1/streamers/{username}    — remove (idempotent)
//	GET    /api/v1/validate?username=x     — canonical profile or 404
//	GET    /api/v1/theme                   — current theme preference
//	PUT    /api/v1/theme                   — persist + broadcast theme change
//	GET    /api/v1/health                  — tracked count, connected clients
//
// Mutations trigger an immediate full-refresh publication cycle before the
// response is written, so a surface that adds a streamer sees it in the next
// broadcast it receives.
package api
