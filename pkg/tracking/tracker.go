package tracking

import "strings"

// searchKey is the comparable projection of a trackable used by one matching
// pass. Each pass only fills the fields it compares.
type searchKey struct {
	ruleKey        string
	hasLine        bool
	line           int
	message        string
	lineHash       string
	textRangeHash  string
	serverIssueKey string
}

// pass describes one matching stage. key returns false when the trackable
// must not take part in the stage at all.
type pass struct {
	name string
	key  func(t *Trackable) (searchKey, bool)
}

// passes are applied in order; a trackable matched by an earlier pass is
// excluded from the later ones.
var passes = []pass{
	{name: "server-issue-key", key: serverIssueKey},
	{name: "line-and-text-range-hash", key: lineAndTextRangeHashKey},
	{name: "text-range-hash-and-message", key: textRangeHashAndMessageKey},
	{name: "line-and-message", key: lineAndMessageKey},
	{name: "text-range-hash", key: textRangeHashKey},
	{name: "line-and-line-hash", key: lineAndLineHashKey},
	{name: "line-hash", key: lineHashKey},
}

// Match pairs raw trackables (the incoming collection) with base trackables
// (the known collection) using seven ordered stages:
// 1) same non-blank server issue key
// 2) rule + line + text range hash
// 3) rule + text range hash + message
// 4) rule + line + message
// 5) rule + text range hash
// 6) rule + line + line hash
// 7) rule + line hash
// Within a stage a raw trackable is bound to the first still unmatched base
// candidate sharing its key and not linked to a different server issue.
// Matching stops as soon as every raw trackable is matched. The result depends
// on the input order, which is deliberate.
func Match(raws, bases []*Trackable) *Tracking {
	tracking := NewTracking(raws, bases)
	for _, p := range passes {
		if tracking.IsComplete() {
			break
		}
		matchPass(tracking, p)
	}
	return tracking
}

func matchPass(tracking *Tracking, p pass) {
	candidates := make(map[searchKey][]int)
	for _, baseIdx := range tracking.unmatchedBaseIndices() {
		key, ok := p.key(tracking.bases[baseIdx])
		if !ok {
			continue
		}
		candidates[key] = append(candidates[key], baseIdx)
	}
	if len(candidates) == 0 {
		return
	}

	for _, rawIdx := range tracking.unmatchedRawIndices() {
		key, ok := p.key(tracking.raws[rawIdx])
		if !ok {
			continue
		}
		bases := candidates[key]
		raw := tracking.raws[rawIdx]
		for i, baseIdx := range bases {
			if conflictingServerIssues(raw, tracking.bases[baseIdx]) {
				continue
			}
			// The first compatible candidate wins, even when a later one shares
			// more fields.
			tracking.bind(rawIdx, baseIdx, p.name)
			candidates[key] = append(bases[:i:i], bases[i+1:]...)
			break
		}
	}
}

// conflictingServerIssues reports whether a and b are linked to different
// server issues. Such findings never match, whatever their content.
func conflictingServerIssues(a, b *Trackable) bool {
	return a.HasServerIssue() && b.HasServerIssue() &&
		strings.TrimSpace(a.ServerIssueKey) != strings.TrimSpace(b.ServerIssueKey)
}

func withLine(key searchKey, t *Trackable) searchKey {
	if t.Line != nil {
		key.hasLine = true
		key.line = *t.Line
	}
	return key
}

func serverIssueKey(t *Trackable) (searchKey, bool) {
	if !t.HasServerIssue() {
		return searchKey{}, false
	}
	return searchKey{serverIssueKey: t.ServerIssueKey}, true
}

func lineAndTextRangeHashKey(t *Trackable) (searchKey, bool) {
	return withLine(searchKey{ruleKey: t.RuleKey, textRangeHash: t.textRangeHash()}, t), true
}

func textRangeHashAndMessageKey(t *Trackable) (searchKey, bool) {
	return searchKey{ruleKey: t.RuleKey, textRangeHash: t.textRangeHash(), message: t.Message}, true
}

func lineAndMessageKey(t *Trackable) (searchKey, bool) {
	return withLine(searchKey{ruleKey: t.RuleKey, message: t.Message}, t), true
}

func textRangeHashKey(t *Trackable) (searchKey, bool) {
	return searchKey{ruleKey: t.RuleKey, textRangeHash: t.textRangeHash()}, true
}

func lineAndLineHashKey(t *Trackable) (searchKey, bool) {
	return withLine(searchKey{ruleKey: t.RuleKey, lineHash: t.LineHash}, t), true
}

func lineHashKey(t *Trackable) (searchKey, bool) {
	return searchKey{ruleKey: t.RuleKey, lineHash: t.LineHash}, true
}
