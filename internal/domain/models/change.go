package models

// ChangeMap records not-yet-confirmed add/remove intentions for one
// period. A key present with value true is a pending add, false a
// pending remove, absence means the committed set stands as-is.
// Standard and original items live in independent sub-maps so that a
// stringified standard code can never collide with an original id.
type ChangeMap struct {
	CommonChanges   map[string]bool `bson:"common_menu_changes" json:"common_menu_changes"`
	OriginalChanges map[string]bool `bson:"original_menu_changes" json:"original_menu_changes"`
}

// NewChangeMap returns an empty change map with both sub-maps allocated.
func NewChangeMap() ChangeMap {
	return ChangeMap{
		CommonChanges:   make(map[string]bool),
		OriginalChanges: make(map[string]bool),
	}
}

// SubMap returns the sub-map holding entries for the given reference.
func (c ChangeMap) SubMap(ref MenuRef) map[string]bool {
	if ref.IsOriginal() {
		return c.OriginalChanges
	}
	return c.CommonChanges
}

// Lookup returns the pending value for the reference and whether an
// entry exists at all.
func (c ChangeMap) Lookup(ref MenuRef) (pending bool, ok bool) {
	sub := c.SubMap(ref)
	if sub == nil {
		return false, false
	}
	pending, ok = sub[ref.Key()]
	return pending, ok
}

// Empty reports whether no pending change is recorded.
func (c ChangeMap) Empty() bool {
	return len(c.CommonChanges) == 0 && len(c.OriginalChanges) == 0
}

// Outcome labels the engine's decision for a placement event.
type Outcome string

const (
	// OutcomeAdded means a pending-add entry was recorded.
	OutcomeAdded Outcome = "added"
	// OutcomeRevived means a pending removal was cancelled.
	OutcomeRevived Outcome = "revived"
	// OutcomeIgnored means the item was already present and nothing changed.
	OutcomeIgnored Outcome = "ignored"
)
