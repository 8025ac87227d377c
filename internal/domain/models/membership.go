package models

import (
	"slices"
	"strconv"
)

// Membership is the committed item set of one day or month menu.
type Membership struct {
	CommonIDs   []int    `bson:"common_ids" json:"common_ids"`
	OriginalIDs []string `bson:"original_ids" json:"original_ids"`
}

// Contains reports whether the referenced item is committed.
func (m Membership) Contains(ref MenuRef) bool {
	if ref.IsOriginal() {
		return slices.Contains(m.OriginalIDs, ref.ID)
	}
	return slices.Contains(m.CommonIDs, ref.Code)
}

// Add appends the referenced item unless it is already committed.
func (m *Membership) Add(ref MenuRef) {
	if m.Contains(ref) {
		return
	}
	if ref.IsOriginal() {
		m.OriginalIDs = append(m.OriginalIDs, ref.ID)
		return
	}
	m.CommonIDs = append(m.CommonIDs, ref.Code)
}

// Remove drops the referenced item if present.
func (m *Membership) Remove(ref MenuRef) {
	if ref.IsOriginal() {
		m.OriginalIDs = slices.DeleteFunc(m.OriginalIDs, func(id string) bool { return id == ref.ID })
		return
	}
	m.CommonIDs = slices.DeleteFunc(m.CommonIDs, func(code int) bool { return code == ref.Code })
}

// Refs returns tagged references for every committed item, standard
// items first in slice order.
func (m Membership) Refs() []MenuRef {
	refs := make([]MenuRef, 0, len(m.CommonIDs)+len(m.OriginalIDs))
	for _, code := range m.CommonIDs {
		refs = append(refs, StandardRef(code))
	}
	for _, id := range m.OriginalIDs {
		refs = append(refs, OriginalRef(id))
	}
	return refs
}

// DefaultMonthCommonIDs is the committed membership assumed for a month
// that has no stored document. It is a read-time fallback, never persisted.
var DefaultMonthCommonIDs = []int{10002, 12057, 12075, 17364, 17366, 17390, 17392, 7051, 7053, 7052, 8001}

// DefaultMonthMembership builds a fresh copy of the month fallback set.
func DefaultMonthMembership() Membership {
	return Membership{CommonIDs: slices.Clone(DefaultMonthCommonIDs)}
}

// ParseStandardKey converts a change-map key back to a standard code.
func ParseStandardKey(key string) (int, bool) {
	code, err := strconv.Atoi(key)
	if err != nil || code <= 0 {
		return 0, false
	}
	return code, true
}
