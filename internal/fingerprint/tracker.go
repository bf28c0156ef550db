package fingerprint

import "sort"

// Tracker owns the set of fingerprints seen in one batch and the
// duplicate counter. Exact-match counting only: the hash is fuzzy but
// the duplicate counter is not.
type Tracker struct {
	seen       map[string]struct{}
	duplicates int
}

func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// Add records a fingerprint and reports whether it was already seen in
// this batch.
func (t *Tracker) Add(fp string) bool {
	if _, ok := t.seen[fp]; ok {
		t.duplicates++
		return true
	}
	t.seen[fp] = struct{}{}
	return false
}

// Total is the number of distinct fingerprints seen.
func (t *Tracker) Total() int {
	return len(t.seen)
}

func (t *Tracker) Duplicates() int {
	return t.duplicates
}

// Sorted returns all distinct fingerprints in lexicographic order for
// the proof metadata.
func (t *Tracker) Sorted() []string {
	out := make([]string, 0, len(t.seen))
	for fp := range t.seen {
		out = append(out, fp)
	}
	sort.Strings(out)
	return out
}
