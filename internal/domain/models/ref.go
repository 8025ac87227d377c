package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MenuRefKind discriminates catalogue-backed standard items from
// operator-authored original items.
type MenuRefKind string

const (
	KindStandard MenuRefKind = "standard"
	KindOriginal MenuRefKind = "original"
)

// MenuRef is a tagged reference to a menu item. Standard items carry an
// integer code, original items a string document id. The tag travels with
// the id across every boundary so that uniformly string-serialized ids
// cannot be misclassified.
type MenuRef struct {
	Kind MenuRefKind
	Code int
	ID   string
}

// StandardRef builds a reference to a catalogue item.
func StandardRef(code int) MenuRef {
	return MenuRef{Kind: KindStandard, Code: code}
}

// OriginalRef builds a reference to an original menu item.
func OriginalRef(id string) MenuRef {
	return MenuRef{Kind: KindOriginal, ID: id}
}

// IsOriginal reports whether the reference points at an original item.
func (r MenuRef) IsOriginal() bool {
	return r.Kind == KindOriginal
}

// Key returns the change-map key for this reference. Standard codes are
// rendered in decimal because document field names must be strings.
func (r MenuRef) Key() string {
	if r.IsOriginal() {
		return r.ID
	}
	return strconv.Itoa(r.Code)
}

// Validate checks structural validity of the reference.
func (r MenuRef) Validate() error {
	switch r.Kind {
	case KindStandard:
		if r.Code <= 0 {
			return fmt.Errorf("%w: standard code must be positive", ErrInvalidMenuRef)
		}
	case KindOriginal:
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("%w: original id must not be empty", ErrInvalidMenuRef)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMenuRef, r.Kind)
	}
	return nil
}

func (r MenuRef) String() string {
	return string(r.Kind) + ":" + r.Key()
}

type taggedRef struct {
	Kind MenuRefKind `json:"kind"`
	Code int         `json:"code,omitempty"`
	ID   string      `json:"id,omitempty"`
}

// MarshalJSON always emits the tagged form.
func (r MenuRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(taggedRef{Kind: r.Kind, Code: r.Code, ID: r.ID})
}

// UnmarshalJSON accepts the tagged form as well as the legacy untyped id
// (bare number for standard items, bare string for original items) still
// emitted by older clients.
func (r *MenuRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return fmt.Errorf("%w: empty reference", ErrInvalidMenuRef)
	}

	if trimmed[0] == '{' {
		var tagged taggedRef
		if err := json.Unmarshal(data, &tagged); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMenuRef, err)
		}
		*r = MenuRef{Kind: tagged.Kind, Code: tagged.Code, ID: tagged.ID}
		return r.Validate()
	}

	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMenuRef, err)
		}
		*r = OriginalRef(id)
		return r.Validate()
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMenuRef, err)
	}
	*r = StandardRef(code)
	return r.Validate()
}
