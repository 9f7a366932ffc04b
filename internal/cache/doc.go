// Package cache is the per-streamer freshness cache sitting between the
// aggregator and the Kick client. It holds (record, capture time) pairs for a
// fixed TTL so partial refresh cycles can skip network calls, and it is
// intentionally process-local: a cold start always refetches.
package cache
