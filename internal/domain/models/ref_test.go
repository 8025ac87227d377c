package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMenuRefJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want MenuRef
	}{
		{name: "tagged standard", in: `{"kind":"standard","code":10002}`, want: StandardRef(10002)},
		{name: "tagged original", in: `{"kind":"original","id":"abc123"}`, want: OriginalRef("abc123")},
		{name: "legacy number", in: `8001`, want: StandardRef(8001)},
		{name: "legacy string", in: `"abc123"`, want: OriginalRef("abc123")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got MenuRef
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}

			// Round-trips through the tagged form.
			data, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var again MenuRef
			if err := json.Unmarshal(data, &again); err != nil {
				t.Fatalf("Unmarshal round-trip: %v", err)
			}
			if again != tt.want {
				t.Errorf("round-trip = %+v, want %+v", again, tt.want)
			}
		})
	}
}

func TestMenuRefJSONRejectsInvalid(t *testing.T) {
	for _, in := range []string{`null`, `""`, `0`, `-5`, `{"kind":"weird","id":"x"}`, `{}`} {
		var ref MenuRef
		if err := json.Unmarshal([]byte(in), &ref); !errors.Is(err, ErrInvalidMenuRef) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrInvalidMenuRef", in, err)
		}
	}
}

func TestMenuRefKey(t *testing.T) {
	if got := StandardRef(10002).Key(); got != "10002" {
		t.Errorf("standard key = %q, want \"10002\"", got)
	}
	if got := OriginalRef("abc").Key(); got != "abc" {
		t.Errorf("original key = %q, want \"abc\"", got)
	}
}

func TestMembershipAddRemove(t *testing.T) {
	m := Membership{CommonIDs: []int{10002}}

	m.Add(StandardRef(10002))
	if len(m.CommonIDs) != 1 {
		t.Errorf("duplicate add grew membership: %v", m.CommonIDs)
	}

	m.Add(OriginalRef("abc"))
	if !m.Contains(OriginalRef("abc")) {
		t.Error("original add missing")
	}

	m.Remove(StandardRef(10002))
	if m.Contains(StandardRef(10002)) {
		t.Error("remove left item behind")
	}
	m.Remove(StandardRef(10002)) // absent: no-op
}
