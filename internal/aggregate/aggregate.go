package aggregate

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/streamsider/streamsider/internal/cache"
	"github.com/streamsider/streamsider/internal/kick"
)

// Fetcher is the upstream surface the aggregator consumes.
// Implemented by *kick.Client.
type Fetcher interface {
	ChannelInfo(ctx context.Context, username string) json.RawMessage
	LivestreamInfo(ctx context.Context, username string) json.RawMessage
}

// Tracker supplies the ordered tracked-username list.
// Implemented by *roster.Store.
type Tracker interface {
	List(ctx context.Context) ([]string, error)
}

// Aggregator combines the tracked list, freshness cache and Kick client into
// full streamer snapshots.
type Aggregator struct {
	tracker Tracker
	fetcher Fetcher
	cache   *cache.Cache
}

// New creates an Aggregator. The cache is passed in rather than owned so its
// lifecycle is explicit and tests can inspect it.
func New(tracker Tracker, fetcher Fetcher, c *cache.Cache) *Aggregator {
	return &Aggregator{tracker: tracker, fetcher: fetcher, cache: c}
}

// cacheKey scopes cache entries per streamer.
func cacheKey(username string) string { return "streamer_" + username }

// StreamersData returns one record per tracked username, in stored order.
// With forceUpdate false, fresh cache entries short-circuit the network; with
// forceUpdate true every username is refetched. Fetched records are re-cached
// unconditionally — a total fetch failure caches the resulting offline record
// too, so dead endpoints are not hammered every partial cycle.
//
// Faults never escape: a tracked-list read failure yields an empty snapshot.
func (a *Aggregator) StreamersData(ctx context.Context, forceUpdate bool) []kick.Streamer {
	usernames, err := a.tracker.List(ctx)
	if err != nil {
		slog.Error("aggregate: reading tracked list failed", "err", err)
		return []kick.Streamer{}
	}

	data := make([]kick.Streamer, 0, len(usernames))
	for _, username := range usernames {
		key := cacheKey(username)

		if !forceUpdate {
			if rec, ok := a.cache.Get(key); ok {
				slog.Debug("aggregate: cache hit", "username", username)
				data = append(data, rec)
				continue
			}
		}

		channelRaw := a.fetcher.ChannelInfo(ctx, username)
		livestreamRaw := a.fetcher.LivestreamInfo(ctx, username)

		rec := kick.Normalize(username, channelRaw, livestreamRaw)
		a.cache.Set(key, rec)
		data = append(data, rec)
	}

	return data
}
