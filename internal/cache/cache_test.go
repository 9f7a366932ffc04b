package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/streamsider/streamsider/internal/kick"
)

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func rec(name string, viewers int) kick.Streamer {
	return kick.Streamer{Username: name, IsLive: viewers > 0, Viewers: viewers, Thumbnail: kick.DefaultThumbnail}
}

func TestSetAndGet_WithinTTL(t *testing.T) {
	c := New(10 * time.Minute)
	want := rec("alice", 120)
	c.Set("streamer_alice", want)

	got, ok := c.Get("streamer_alice")
	if !ok {
		t.Fatal("Get: expected hit")
	}
	if got != want {
		t.Errorf("Get: got %+v, want %+v", got, want)
	}
}

func TestGet_Missing(t *testing.T) {
	c := New(10 * time.Minute)
	if _, ok := c.Get("streamer_unknown"); ok {
		t.Fatal("Get on empty cache: expected miss")
	}
}

func TestGet_ExpiredEntryPurged(t *testing.T) {
	base := time.Now()
	c := New(10 * time.Minute)

	c.now = fixedClock(base)
	c.Set("streamer_alice", rec("alice", 1))

	c.now = fixedClock(base.Add(10 * time.Minute))
	if _, ok := c.Get("streamer_alice"); ok {
		t.Fatal("Get at exactly TTL: expected miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len after expired Get: got %d, want 0 (entry purged)", c.Len())
	}
}

func TestGet_JustUnderTTL(t *testing.T) {
	base := time.Now()
	c := New(10 * time.Minute)

	c.now = fixedClock(base)
	c.Set("streamer_alice", rec("alice", 1))

	c.now = fixedClock(base.Add(10*time.Minute - time.Millisecond))
	if _, ok := c.Get("streamer_alice"); !ok {
		t.Fatal("Get just under TTL: expected hit")
	}
}

func TestSet_OverwritesAndRestampsTimestamp(t *testing.T) {
	base := time.Now()
	c := New(10 * time.Minute)

	c.now = fixedClock(base)
	c.Set("streamer_alice", rec("alice", 1))

	// Overwrite near expiry; the new stamp keeps the entry fresh.
	c.now = fixedClock(base.Add(9 * time.Minute))
	c.Set("streamer_alice", rec("alice", 500))

	c.now = fixedClock(base.Add(15 * time.Minute))
	got, ok := c.Get("streamer_alice")
	if !ok {
		t.Fatal("Get: expected hit after overwrite restamped the entry")
	}
	if got.Viewers != 500 {
		t.Errorf("Viewers: got %d, want 500", got.Viewers)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(10 * time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set("streamer_alice", rec("alice", 1))
		}()
		go func() {
			defer wg.Done()
			c.Get("streamer_alice")
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("Len after concurrent ops: got %d, want 1", c.Len())
	}
}
