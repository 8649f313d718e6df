// Package cache holds the latest tracked issue set of every analysed file.
package cache

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/issue-tracker/internal/store"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

const (
	KindMemory     = "memory"
	KindPersistent = "persistent"

	// DefaultCapacity is the number of files kept in memory by Persistent.
	DefaultCapacity = 100
)

// IssueTrackerCache maps scope keys (repository relative file paths) to
// their tracked issues.
type IssueTrackerCache interface {
	// IsFirstAnalysis reports whether key was never tracked.
	IsFirstAnalysis(key string) bool
	// GetCurrentTrackables returns the tracked issues of key, empty when unknown.
	GetCurrentTrackables(key string) []*tracking.Trackable
	// GetLiveOrFail returns the in-memory tracked issues of key or a
	// *errors.NotAnalyzedError.
	GetLiveOrFail(key string) ([]*tracking.Trackable, error)
	// Put replaces the tracked issues of key.
	Put(key string, trackables []*tracking.Trackable) error
	Clear() error
	Shutdown() error
}

// KeyLister is implemented by caches able to enumerate their tracked keys.
type KeyLister interface {
	Keys() ([]string, error)
}

// New builds the cache of the given kind. The store is only used by the
// persistent kind.
func New(kind string, capacity int, s store.Store, logger hclog.Logger) (IssueTrackerCache, error) {
	switch kind {
	case KindMemory:
		return NewInMemory(), nil
	case KindPersistent, "":
		if s == nil {
			return nil, fmt.Errorf("%s cache requires a store", KindPersistent)
		}
		if capacity == 0 {
			capacity = DefaultCapacity
		}
		p, err := NewPersistent(capacity, s, logger.Named("cache"))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown cache kind %q", kind)
	}
}
