// Package poller is the process-wide refresh scheduler. It ticks on a fixed
// interval with an explicit cycle counter: every Nth cycle bypasses the cache,
// the rest prefer it, and a partial cycle that discovers a live streamer
// escalates to one immediate full pass. Every completed cycle publishes the
// whole snapshot — persisted for cold starts, broadcast to the hub — and a
// failed cycle is logged without disturbing the schedule.
package poller
