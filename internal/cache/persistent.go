package cache

import (
	goerrors "errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/scan-io-git/issue-tracker/internal/store"
	"github.com/scan-io-git/issue-tracker/pkg/shared/errors"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// Persistent keeps the most recently used entries in memory and writes
// evicted ones to a durable store. The store is owned by the caller.
type Persistent struct {
	mu       sync.Mutex
	capacity int
	store    store.Store
	logger   hclog.Logger
	window   *simplelru.LRU[string, []*tracking.Trackable]

	// evictErr collects the save failure of the eviction triggered by the
	// current Put. Guarded by mu.
	evictErr error
}

// NewPersistent creates a cache holding at most capacity entries in memory.
func NewPersistent(capacity int, s store.Store, logger hclog.Logger) (*Persistent, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	p := &Persistent{
		capacity: capacity,
		store:    s,
		logger:   logger,
	}
	window, err := p.newWindow()
	if err != nil {
		return nil, err
	}
	p.window = window
	return p, nil
}

func (p *Persistent) newWindow() (*simplelru.LRU[string, []*tracking.Trackable], error) {
	return simplelru.NewLRU[string, []*tracking.Trackable](p.capacity, p.onEvict)
}

// onEvict runs synchronously inside window.Add while mu is held.
func (p *Persistent) onEvict(key string, trackables []*tracking.Trackable) {
	p.logger.Debug("evicting tracked issues to the store", "key", key, "count", len(trackables))
	if err := p.store.Save(key, trackables); err != nil {
		p.evictErr = errors.NewStoreWriteError(key, err)
	}
}

func (p *Persistent) IsFirstAnalysis(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.window.Contains(key) && !p.store.Contains(key)
}

// GetCurrentTrackables falls back to the store for keys outside the window.
// Entries read from the store are not put back into the window.
func (p *Persistent) GetCurrentTrackables(key string) []*tracking.Trackable {
	p.mu.Lock()
	defer p.mu.Unlock()
	if trackables, ok := p.window.Get(key); ok {
		return trackables
	}

	trackables, err := p.store.Read(key)
	if err != nil {
		if !goerrors.Is(err, store.ErrNotFound) {
			p.logger.Warn("failed to read tracked issues from the store", "key", key, "error", err)
		}
		return []*tracking.Trackable{}
	}
	return trackables
}

// GetLiveOrFail only looks at the in-memory window.
func (p *Persistent) GetLiveOrFail(key string) ([]*tracking.Trackable, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	trackables, ok := p.window.Get(key)
	if !ok {
		return nil, errors.NewNotAnalyzedError(key)
	}
	return trackables, nil
}

// Put stores trackables in the window. When this pushes another entry out,
// that entry is saved before Put returns and a save failure is returned.
func (p *Persistent) Put(key string, trackables []*tracking.Trackable) error {
	if trackables == nil {
		trackables = []*tracking.Trackable{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evictErr = nil
	p.window.Add(key, trackables)
	err := p.evictErr
	p.evictErr = nil
	return err
}

// FlushAll saves every in-memory entry without removing it.
func (p *Persistent) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked()
}

func (p *Persistent) flushLocked() error {
	for _, key := range p.window.Keys() {
		trackables, ok := p.window.Peek(key)
		if !ok {
			continue
		}
		if err := p.store.Save(key, trackables); err != nil {
			return errors.NewStoreWriteError(key, err)
		}
	}
	p.logger.Debug("tracked issues flushed", "count", p.window.Len())
	return nil
}

// Clear empties both the store and the window without saving anything.
func (p *Persistent) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear the store: %w", err)
	}
	// Purge would call onEvict for every entry, so start from a new window.
	window, err := p.newWindow()
	if err != nil {
		return err
	}
	p.window = window
	return nil
}

// Shutdown flushes the window. Closing the store is left to its owner.
func (p *Persistent) Shutdown() error {
	return p.FlushAll()
}

// Keys returns the keys held in memory or in the store, in lexical order.
func (p *Persistent) Keys() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[string]struct{})
	for _, k := range p.window.Keys() {
		seen[k] = struct{}{}
	}
	if lister, ok := p.store.(store.Lister); ok {
		stored, err := lister.Keys()
		if err != nil {
			return nil, err
		}
		for _, k := range stored {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
