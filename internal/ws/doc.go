// Package ws implements the WebSocket hub feeding streamsider's front-end
// surfaces (the injected sidebar panel and the popup).
//
// New(onConnect) creates a Hub; onConnect supplies the message sent to each
// client right after the upgrade, usually the last published snapshot so a
// freshly opened surface renders instantly.
// Hub.Broadcast(event, data) fans a full payload out to every client.
// Hub.Run(ctx) blocks until ctx is cancelled, then closes all connections.
//
// Message format sent to clients:
//
//	{
//	  "event": "streamers" | "theme",
//	  "data":  [ /* full StreamerRecord array */ ] | { "theme": "kick" }
//	}
//
// Snapshots are always sent whole, never as diffs, and delivery is
// best-effort: a surface that is not connected simply misses the broadcast.
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The hub is mounted at /ws by the server.
package ws
