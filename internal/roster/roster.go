package roster

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/streamsider/streamsider/internal/kick"
	"github.com/streamsider/streamsider/internal/storage"
)

// storageKey is the synced-scope key holding the tracked username list.
const storageKey = "kickStreamers"

// Reportable failures of Add. Everything else in the pipeline degrades
// silently; these two are surfaced so the UI can show a message.
var (
	ErrNotFound   = errors.New("streamer not found")
	ErrRosterFull = errors.New("maximum streamers reached")
)

// Validator confirms a username exists upstream and returns its canonical
// profile. Implemented by *kick.Client.
type Validator interface {
	Validate(ctx context.Context, username string) (kick.Profile, bool)
}

// Store owns the bounded ordered list of tracked usernames. All mutation goes
// through Add/Remove, which re-persist the entire list to synced storage.
type Store struct {
	kv        *storage.Store
	validator Validator
	capacity  int

	// Serializes read-modify-write cycles so a racing Add and Remove cannot
	// interleave between load and persist.
	mu sync.Mutex
}

// New creates a Store with the given capacity.
func New(kv *storage.Store, validator Validator, capacity int) *Store {
	return &Store{kv: kv, validator: validator, capacity: capacity}
}

// List returns the tracked usernames in stored order. A list that was never
// persisted is empty, not an error.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var usernames []string
	ok, err := s.kv.Get(ctx, storage.ScopeSynced, storageKey, &usernames)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	return usernames, nil
}

// Add validates the raw username, canonicalizes it, and appends it to the
// list. Returns ErrNotFound when no such channel exists and ErrRosterFull
// when the list is at capacity. Adding an already-tracked username is a no-op.
func (s *Store) Add(ctx context.Context, username string) error {
	profile, ok := s.validator.Validate(ctx, username)
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	usernames, err := s.List(ctx)
	if err != nil {
		return err
	}

	for _, u := range usernames {
		if u == profile.Username {
			return nil
		}
	}

	if len(usernames) >= s.capacity {
		return ErrRosterFull
	}

	usernames = append(usernames, profile.Username)
	return s.kv.Set(ctx, storage.ScopeSynced, storageKey, usernames)
}

// Remove filters username out of the list and persists the remainder.
// Removing an absent username is not an error.
func (s *Store) Remove(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	usernames, err := s.List(ctx)
	if err != nil {
		return err
	}

	filtered := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u != username {
			filtered = append(filtered, u)
		}
	}

	return s.kv.Set(ctx, storage.ScopeSynced, storageKey, filtered)
}
