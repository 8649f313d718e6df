package cmd

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/issue-tracker/internal/cache"
	"github.com/scan-io-git/issue-tracker/internal/config"
	"github.com/scan-io-git/issue-tracker/internal/issuetracker"
	"github.com/scan-io-git/issue-tracker/internal/store"
)

// Mode constants
const (
	ModeSelectedKeys = "selected-keys"
	ModeAllKeys      = "all-keys"
)

// DetermineMode tells whether a command works on the keys given as arguments
// or on every tracked key.
func DetermineMode(args []string) string {
	if len(args) > 0 {
		return ModeSelectedKeys
	}
	return ModeAllKeys
}

// Session bundles a tracker with the cache and store it runs on.
type Session struct {
	Tracker *issuetracker.CachingIssueTracker
	Cache   cache.IssueTrackerCache
	Store   store.Store
}

// OpenSession builds the store, cache and tracker described by cfg.
func OpenSession(cfg *config.Config, logger hclog.Logger) (*Session, error) {
	s, err := store.Open(cfg.Store.Driver, cfg.Store.Path, logger.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("failed to open %q store: %w", cfg.Store.Driver, err)
	}

	c, err := cache.New(cfg.Tracker.Cache, cfg.Tracker.Capacity, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create %q cache: %w", cfg.Tracker.Cache, err)
	}

	return &Session{
		Tracker: issuetracker.NewCachingIssueTracker(c, logger.Named("tracker")),
		Cache:   c,
		Store:   s,
	}, nil
}

// Keys lists the tracked keys. It fails when the cache cannot enumerate them.
func (s *Session) Keys() ([]string, error) {
	lister, ok := s.Cache.(cache.KeyLister)
	if !ok {
		return nil, fmt.Errorf("cache does not list its keys")
	}
	return lister.Keys()
}

// Close flushes the tracker and closes the store.
func (s *Session) Close() error {
	return errors.Join(s.Tracker.Shutdown(), s.Store.Close())
}
