package cache

import (
	"sort"
	"sync"

	"github.com/scan-io-git/issue-tracker/pkg/shared/errors"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// InMemory is an unbounded cache without persistence.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string][]*tracking.Trackable
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string][]*tracking.Trackable)}
}

func (c *InMemory) IsFirstAnalysis(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return !ok
}

func (c *InMemory) GetCurrentTrackables(key string) []*tracking.Trackable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if trackables, ok := c.entries[key]; ok {
		return trackables
	}
	return []*tracking.Trackable{}
}

func (c *InMemory) GetLiveOrFail(key string) ([]*tracking.Trackable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	trackables, ok := c.entries[key]
	if !ok {
		return nil, errors.NewNotAnalyzedError(key)
	}
	return trackables, nil
}

func (c *InMemory) Put(key string, trackables []*tracking.Trackable) error {
	if trackables == nil {
		trackables = []*tracking.Trackable{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = trackables
	return nil
}

func (c *InMemory) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]*tracking.Trackable)
	return nil
}

// Shutdown is a no-op, nothing outlives the process.
func (c *InMemory) Shutdown() error {
	return nil
}

// Keys returns the tracked keys in lexical order.
func (c *InMemory) Keys() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
