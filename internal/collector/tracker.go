package collector

import "github.com/ProjectCodeKw/reviewharvest/internal/domain"

// Tracker holds the set of already-collected (reviewer, subject) identities.
// It is built once per run from the persisted table and passed explicitly
// into each collection call; there is no hidden global state.
type Tracker struct {
	seen map[domain.IdentityKey]struct{}
}

// NewTracker seeds the tracker from previously persisted reviews. Records
// without a real reviewer identity are skipped: they can never be
// deduplicated.
func NewTracker(existing []domain.Review) *Tracker {
	t := &Tracker{seen: make(map[domain.IdentityKey]struct{}, len(existing))}
	for _, r := range existing {
		t.Add(r.Identity())
	}
	return t
}

// Contains reports whether the identity has already been collected.
func (t *Tracker) Contains(key domain.IdentityKey) bool {
	if !key.Trackable() {
		return false
	}
	_, ok := t.seen[key]
	return ok
}

// Add records an identity. Placeholder identities are ignored.
func (t *Tracker) Add(key domain.IdentityKey) {
	if !key.Trackable() {
		return
	}
	t.seen[key] = struct{}{}
}

// Len returns the number of tracked identities.
func (t *Tracker) Len() int {
	return len(t.seen)
}
