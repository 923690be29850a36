package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pfrederiksen/dxp-leaderboard/internal/scraper"
)

type memStore struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func countingLookup(result scraper.Lookup, err error) (func(context.Context, string) (scraper.Lookup, error), *int) {
	calls := 0
	return func(context.Context, string) (scraper.Lookup, error) {
		calls++
		return result, err
	}, &calls
}

func TestKey(t *testing.T) {
	if got := Key(" Ghost Gob "); got != "dxp:xp:ghost gob" {
		t.Errorf("Key() = %q", got)
	}
}

func TestCached_MissThenHit(t *testing.T) {
	store := newMemStore()
	next, calls := countingLookup(scraper.Lookup{Raw: "1,000", Found: true}, nil)
	lookup := Cached(store, next, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := lookup(context.Background(), "Batsie")
		if err != nil {
			t.Fatalf("lookup() error = %v", err)
		}
		if got.Raw != "1,000" || !got.Found {
			t.Errorf("lookup() = %+v", got)
		}
	}

	if *calls != 1 {
		t.Errorf("next called %d times, want 1", *calls)
	}
	if store.ttls[Key("Batsie")] != time.Minute {
		t.Errorf("ttl = %v, want 1m", store.ttls[Key("Batsie")])
	}
}

func TestCached_NotFoundIsCached(t *testing.T) {
	store := newMemStore()
	next, calls := countingLookup(scraper.Lookup{Raw: scraper.MissingXP}, nil)
	lookup := Cached(store, next, 0)

	lookup(context.Background(), "Old_fally")
	got, err := lookup(context.Background(), "old_fally")
	if err != nil {
		t.Fatalf("lookup() error = %v", err)
	}
	if got.Found {
		t.Error("cached miss should stay not found")
	}
	if *calls != 1 {
		t.Errorf("next called %d times, want 1", *calls)
	}
	if store.ttls[Key("Old_fally")] != DefaultTTL {
		t.Errorf("ttl = %v, want DefaultTTL", store.ttls[Key("Old_fally")])
	}
}

func TestCached_ErrorsNotCached(t *testing.T) {
	store := newMemStore()
	fetchErr := errors.New("timeout")
	next, calls := countingLookup(scraper.Lookup{}, fetchErr)
	lookup := Cached(store, next, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := lookup(context.Background(), "Batsie"); !errors.Is(err, fetchErr) {
			t.Errorf("lookup() error = %v, want %v", err, fetchErr)
		}
	}
	if *calls != 2 {
		t.Errorf("next called %d times, want 2", *calls)
	}
	if len(store.data) != 0 {
		t.Errorf("store holds %d entries, want 0", len(store.data))
	}
}

func TestCached_StoreFailureFallsThrough(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("redis down")
	next, calls := countingLookup(scraper.Lookup{Raw: "5", Found: true}, nil)

	got, err := Cached(store, next, time.Minute)(context.Background(), "Batsie")
	if err != nil {
		t.Fatalf("lookup() error = %v", err)
	}
	if got.Raw != "5" || *calls != 1 {
		t.Errorf("lookup() = %+v after %d calls", got, *calls)
	}
}

func TestCached_CorruptEntryRefetched(t *testing.T) {
	store := newMemStore()
	store.data[Key("Batsie")] = "{not json"
	next, calls := countingLookup(scraper.Lookup{Raw: "9", Found: true}, nil)

	got, err := Cached(store, next, time.Minute)(context.Background(), "Batsie")
	if err != nil {
		t.Fatalf("lookup() error = %v", err)
	}
	if got.Raw != "9" || *calls != 1 {
		t.Errorf("lookup() = %+v after %d calls", got, *calls)
	}
	if store.data[Key("Batsie")] == "{not json" {
		t.Error("corrupt entry should be overwritten")
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not-a-url"); err == nil {
		t.Error("NewRedisStore() expected error for invalid url")
	}
}
