package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/streamsider/streamsider/internal/config"
	"github.com/streamsider/streamsider/internal/kick"
	"github.com/streamsider/streamsider/internal/storage"
)

// EventStreamers is the hub event carrying a published snapshot.
const EventStreamers = "streamers"

// SnapshotKey is the local-scope storage key holding the last published
// snapshot, read back for cold-start display and on WebSocket connect.
const SnapshotKey = "streamersData"

// Aggregator produces full snapshots. Implemented by *aggregate.Aggregator.
type Aggregator interface {
	StreamersData(ctx context.Context, forceUpdate bool) []kick.Streamer
}

// Notifier fans a published snapshot out to connected front-ends.
// Implemented by *ws.Hub.
type Notifier interface {
	Broadcast(event string, data any)
}

// Poller drives the recurring refresh schedule. Most cycles are partial
// (cache-preferring); every Nth cycle is full, and a partial cycle that finds
// any live streamer escalates to one full pass so viewer counts are current.
type Poller struct {
	agg       Aggregator
	kv        *storage.Store
	notifier  Notifier
	interval  time.Duration
	fullEvery int

	// Serializes cycles: a triggered refresh and a scheduled tick never
	// interleave; whichever completes last publishes last.
	mu   sync.Mutex
	tick int
}

// New creates a Poller from the poll section of the config.
func New(agg Aggregator, kv *storage.Store, notifier Notifier, cfg config.PollConfig) *Poller {
	return &Poller{
		agg:       agg,
		kv:        kv,
		notifier:  notifier,
		interval:  cfg.Interval,
		fullEvery: cfg.FullRefreshEvery,
	}
}

// Run performs an immediate refresh, then cycles on the configured interval
// until ctx is cancelled. A faulty cycle never stops the schedule.
func (p *Poller) Run(ctx context.Context) {
	// Startup run: the cache is cold, so this is a full fetch either way.
	p.runCycle(ctx, true)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick++
			p.runCycle(ctx, p.fullTick(p.tick))
		}
	}
}

// RefreshNow runs one full-refresh cycle outside the schedule. Called after
// add/remove mutations so front-ends see the change immediately.
func (p *Poller) RefreshNow(ctx context.Context) {
	p.runCycle(ctx, true)
}

// fullTick reports whether tick n is a scheduled full refresh.
func (p *Poller) fullTick(n int) bool {
	return n%p.fullEvery == 0
}

// runCycle executes one refresh pass and publishes its snapshot. Faults —
// including panics from anywhere in the pipeline — are contained here so the
// scheduler keeps ticking.
func (p *Poller) runCycle(ctx context.Context, force bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("poller: cycle panicked", "panic", r)
		}
	}()

	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	data := p.agg.StreamersData(ctx, force)

	// Escalation: cached data for a newly-live channel may carry a stale
	// viewer count, so a partial cycle that finds anyone live is upgraded to
	// one full pass and that result is published instead.
	if !force && anyLive(data) {
		slog.Info("poller: live streamer in partial cycle, escalating to full refresh")
		data = p.agg.StreamersData(ctx, true)
	}

	p.publish(ctx, data)

	slog.Debug("poller: cycle complete",
		"force", force, "streamers", len(data), "elapsed", time.Since(start))
}

// publish persists the snapshot and broadcasts it in full. A persistence
// failure aborts the publication; the next cycle will try again.
func (p *Poller) publish(ctx context.Context, data []kick.Streamer) {
	if err := p.kv.Set(ctx, storage.ScopeLocal, SnapshotKey, data); err != nil {
		slog.Error("poller: persisting snapshot failed", "err", err)
		return
	}
	p.notifier.Broadcast(EventStreamers, data)
}

func anyLive(data []kick.Streamer) bool {
	for _, s := range data {
		if s.IsLive {
			return true
		}
	}
	return false
}
