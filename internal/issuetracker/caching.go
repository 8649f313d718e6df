// Package issuetracker reconciles freshly detected issues with the tracked
// ones held in a cache and keeps the cache up to date.
package issuetracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/issue-tracker/internal/cache"
	"github.com/scan-io-git/issue-tracker/pkg/tracking"
)

// CachingIssueTracker serialises every tracking call on a single cache.
type CachingIssueTracker struct {
	mu     sync.Mutex
	cache  cache.IssueTrackerCache
	logger hclog.Logger
	now    func() time.Time
}

// NewCachingIssueTracker creates a tracker working on c.
func NewCachingIssueTracker(c cache.IssueTrackerCache, logger hclog.Logger) *CachingIssueTracker {
	return &CachingIssueTracker{
		cache:  c,
		logger: logger,
		now:    time.Now,
	}
}

// Stats counts how the fresh issues of one TrackAsNew call were classified.
type Stats struct {
	FirstAnalysis bool `json:"first_analysis"`
	Total         int  `json:"total"`
	Matched       int  `json:"matched"`
	New           int  `json:"new"`
	Dropped       int  `json:"dropped"`
}

// TrackAsNew records fresh as the current issues of key and returns the tracked set.
//
// On the first analysis of key the input is kept as is. Afterwards every fresh
// issue matched with a tracked one inherits its history (creation date, server
// linkage, resolution, severity, type, ID) while location and content come
// from the fresh issue. Unmatched fresh issues are leaks: they get the current
// time as creation date unless they carry one. Tracked issues without fresh
// counterpart are dropped.
func (t *CachingIssueTracker) TrackAsNew(key string, fresh []*tracking.Trackable) ([]*tracking.Trackable, error) {
	tracked, _, err := t.TrackAsNewWithStats(key, fresh)
	return tracked, err
}

// TrackAsNewWithStats is TrackAsNew also reporting how the issues were classified.
// A store write error means another entry could not be evicted; the entry of
// key is replaced anyway and the result is returned along with the error.
func (t *CachingIssueTracker) TrackAsNewWithStats(key string, fresh []*tracking.Trackable) ([]*tracking.Trackable, Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cache.IsFirstAnalysis(key) {
		tracked := append([]*tracking.Trackable{}, fresh...)
		stats := Stats{FirstAnalysis: true, Total: len(tracked)}
		if err := t.cache.Put(key, tracked); err != nil {
			return tracked, stats, fmt.Errorf("failed to track issues of %q: %w", key, err)
		}
		t.logger.Debug("first analysis", "key", key, "issues", len(tracked))
		return tracked, stats, nil
	}

	known := t.cache.GetCurrentTrackables(key)
	matching := tracking.Match(fresh, known)
	nowMillis := t.now().UnixMilli()

	tracked := make([]*tracking.Trackable, 0, len(fresh))
	stats := Stats{Total: len(fresh)}
	for i, raw := range fresh {
		if base, ok := matching.BaseFor(i); ok {
			tracked = append(tracked, mergeAsNew(raw, base))
			stats.Matched++
			continue
		}
		tracked = append(tracked, leak(raw, nowMillis))
		stats.New++
	}
	stats.Dropped = len(known) - stats.Matched

	if err := t.cache.Put(key, tracked); err != nil {
		return tracked, stats, fmt.Errorf("failed to track issues of %q: %w", key, err)
	}
	t.logger.Debug("issues tracked",
		"key", key,
		"issues", stats.Total,
		"matched", stats.Matched,
		"leaks", stats.New,
		"dropped", stats.Dropped,
	)
	return tracked, stats, nil
}

// TrackAsBase rebases the live issues of key on an authoritative collection,
// usually the issues known by the server. Local issues keep their location and
// history and take the server key and resolution of their counterpart; those
// without counterpart lose any server data. The key must have been tracked in
// this process, otherwise a *errors.NotAnalyzedError is returned.
func (t *CachingIssueTracker) TrackAsBase(key string, authoritative []*tracking.Trackable) ([]*tracking.Trackable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	live, err := t.cache.GetLiveOrFail(key)
	if err != nil {
		return nil, err
	}
	if len(live) == 0 {
		t.logger.Trace("nothing to rebase", "key", key)
		return []*tracking.Trackable{}, nil
	}

	matching := tracking.Match(live, authoritative)
	tracked := make([]*tracking.Trackable, 0, len(live))
	linked := 0
	for i, local := range live {
		merged := local.Clone()
		if remote, ok := matching.BaseFor(i); ok {
			merged.ServerIssueKey = remote.ServerIssueKey
			merged.Resolved = remote.Resolved
			if merged.HasServerIssue() {
				linked++
			}
		} else {
			merged.ServerIssueKey = ""
			merged.Resolved = false
		}
		tracked = append(tracked, merged)
	}

	if err := t.cache.Put(key, tracked); err != nil {
		return tracked, fmt.Errorf("failed to rebase issues of %q: %w", key, err)
	}
	t.logger.Debug("issues rebased", "key", key, "issues", len(tracked), "linked", linked, "authoritative", len(authoritative))
	return tracked, nil
}

// Shutdown flushes the underlying cache.
func (t *CachingIssueTracker) Shutdown() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cache.Shutdown()
}

func mergeAsNew(raw, base *tracking.Trackable) *tracking.Trackable {
	merged := raw.Clone()
	merged.ID = base.ID
	merged.Severity = base.Severity
	merged.Type = base.Type
	merged.ServerIssueKey = base.ServerIssueKey
	merged.Resolved = base.Resolved
	merged.CreationDate = nil
	if base.CreationDate != nil {
		merged.CreationDate = tracking.Millis(*base.CreationDate)
	}
	return merged
}

func leak(raw *tracking.Trackable, nowMillis int64) *tracking.Trackable {
	leaked := raw.Clone()
	if leaked.CreationDate == nil {
		leaked.CreationDate = tracking.Millis(nowMillis)
	}
	if leaked.ID == uuid.Nil {
		leaked.ID = uuid.New()
	}
	leaked.ServerIssueKey = ""
	leaked.Resolved = false
	return leaked
}
