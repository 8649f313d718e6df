package tracking

// Pair binds a raw trackable to the base trackable it was matched with.
type Pair struct {
	Raw  *Trackable
	Base *Trackable
	// Pass names the matching stage that produced the pair, empty for manual matches.
	Pass string
}

// Tracking holds the one-to-one match state between a raw and a base
// collection. Elements are identified by their position in the input slices,
// so two structurally equal trackables are never confused.
type Tracking struct {
	raws  []*Trackable
	bases []*Trackable

	// rawToBase and baseToRaw hold the index of the counterpart, -1 when unmatched.
	rawToBase []int
	baseToRaw []int
	passByRaw []string

	unmatchedRawCount int
}

// NewTracking creates an empty match state over the provided collections.
func NewTracking(raws, bases []*Trackable) *Tracking {
	t := &Tracking{
		raws:              raws,
		bases:             bases,
		rawToBase:         make([]int, len(raws)),
		baseToRaw:         make([]int, len(bases)),
		passByRaw:         make([]string, len(raws)),
		unmatchedRawCount: len(raws),
	}
	for i := range t.rawToBase {
		t.rawToBase[i] = -1
	}
	for i := range t.baseToRaw {
		t.baseToRaw[i] = -1
	}
	return t
}

// Match records that raws[rawIdx] and bases[baseIdx] are the same finding.
// Indices already bound are left untouched.
func (t *Tracking) Match(rawIdx, baseIdx int) {
	t.bind(rawIdx, baseIdx, "")
}

func (t *Tracking) bind(rawIdx, baseIdx int, passName string) {
	if t.rawToBase[rawIdx] != -1 || t.baseToRaw[baseIdx] != -1 {
		return
	}
	t.rawToBase[rawIdx] = baseIdx
	t.baseToRaw[baseIdx] = rawIdx
	t.passByRaw[rawIdx] = passName
	t.unmatchedRawCount--
}

// IsComplete reports whether every raw trackable has a base counterpart.
func (t *Tracking) IsComplete() bool {
	return t.unmatchedRawCount == 0
}

// UnmatchedRaws returns a snapshot of the raw trackables without counterpart.
func (t *Tracking) UnmatchedRaws() []*Trackable {
	return collectUnmatched(t.raws, t.rawToBase)
}

// UnmatchedBases returns a snapshot of the base trackables without counterpart.
func (t *Tracking) UnmatchedBases() []*Trackable {
	return collectUnmatched(t.bases, t.baseToRaw)
}

// BaseFor returns the base counterpart of raws[rawIdx], if any.
func (t *Tracking) BaseFor(rawIdx int) (*Trackable, bool) {
	baseIdx := t.rawToBase[rawIdx]
	if baseIdx == -1 {
		return nil, false
	}
	return t.bases[baseIdx], true
}

// MatchedPairs returns the matched raw/base pairs in raw order.
func (t *Tracking) MatchedPairs() []Pair {
	pairs := make([]Pair, 0, len(t.raws)-t.unmatchedRawCount)
	for rawIdx, baseIdx := range t.rawToBase {
		if baseIdx == -1 {
			continue
		}
		pairs = append(pairs, Pair{Raw: t.raws[rawIdx], Base: t.bases[baseIdx], Pass: t.passByRaw[rawIdx]})
	}
	return pairs
}

// unmatchedRawIndices and unmatchedBaseIndices are the index views used by the matcher.
func (t *Tracking) unmatchedRawIndices() []int {
	return unmatchedIndices(t.rawToBase)
}

func (t *Tracking) unmatchedBaseIndices() []int {
	return unmatchedIndices(t.baseToRaw)
}

func collectUnmatched(items []*Trackable, counterpart []int) []*Trackable {
	out := make([]*Trackable, 0)
	for i, other := range counterpart {
		if other == -1 {
			out = append(out, items[i])
		}
	}
	return out
}

func unmatchedIndices(counterpart []int) []int {
	out := make([]int, 0, len(counterpart))
	for i, other := range counterpart {
		if other == -1 {
			out = append(out, i)
		}
	}
	return out
}
