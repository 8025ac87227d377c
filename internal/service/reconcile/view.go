package reconcile

import (
	"context"
	"sort"

	"github.com/funchapp/funch-server/internal/domain/models"
)

// EntryState annotates one displayed item with its pending status.
type EntryState string

const (
	StateCommitted     EntryState = "committed"
	StatePendingAdd    EntryState = "pending_add"
	StatePendingRemove EntryState = "pending_remove"
)

// ViewEntry is one row of the displayed (committed ∪ pending) menu.
type ViewEntry struct {
	Item  models.MenuRef `json:"item"`
	State EntryState     `json:"state"`
}

// PeriodView is the merged read model the calendar cells and the month
// board render from.
type PeriodView struct {
	Period  string      `json:"period"`
	Entries []ViewEntry `json:"entries"`
}

// View merges a period's committed membership with its change map for
// display. Committed items flagged for removal stay listed, annotated,
// until confirmation makes them disappear.
func (e *Engine) View(ctx context.Context, period models.Period) (PeriodView, error) {
	if err := period.Validate(); err != nil {
		return PeriodView{}, err
	}

	membership, err := e.membership(ctx, period)
	if err != nil {
		return PeriodView{}, err
	}

	cm, err := e.changes.GetChangeMap(ctx, period)
	if err != nil {
		return PeriodView{}, err
	}

	return PeriodView{Period: period.Key, Entries: Compose(membership, cm)}, nil
}

// Compose produces the displayed entry list: committed items in stored
// order with their removal annotations, then pending adds in key order.
func Compose(membership models.Membership, cm models.ChangeMap) []ViewEntry {
	entries := make([]ViewEntry, 0, len(membership.CommonIDs)+len(membership.OriginalIDs))

	for _, ref := range membership.Refs() {
		state := StateCommitted
		if pending, ok := cm.Lookup(ref); ok && !pending {
			state = StatePendingRemove
		}
		entries = append(entries, ViewEntry{Item: ref, State: state})
	}

	entries = append(entries, pendingAdds(cm.CommonChanges, false)...)
	entries = append(entries, pendingAdds(cm.OriginalChanges, true)...)

	return entries
}

func pendingAdds(sub map[string]bool, original bool) []ViewEntry {
	keys := make([]string, 0, len(sub))
	for key, pending := range sub {
		if pending {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	entries := make([]ViewEntry, 0, len(keys))
	for _, key := range keys {
		if original {
			entries = append(entries, ViewEntry{Item: models.OriginalRef(key), State: StatePendingAdd})
			continue
		}
		if code, ok := models.ParseStandardKey(key); ok {
			entries = append(entries, ViewEntry{Item: models.StandardRef(code), State: StatePendingAdd})
		}
	}
	return entries
}
