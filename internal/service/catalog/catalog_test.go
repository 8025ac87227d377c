package catalog

import (
	"context"
	"slices"
	"testing"

	"github.com/funchapp/funch-server/internal/domain/models"
	repo "github.com/funchapp/funch-server/internal/repository/mongodb"
)

type memOriginals struct {
	items map[string]models.OriginalMenuItem
}

func newMemOriginals(items ...models.OriginalMenuItem) *memOriginals {
	store := &memOriginals{items: make(map[string]models.OriginalMenuItem)}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (s *memOriginals) ListOriginals(_ context.Context) ([]models.OriginalMenuItem, error) {
	out := make([]models.OriginalMenuItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out, nil
}

func (s *memOriginals) GetOriginal(_ context.Context, id string) (models.OriginalMenuItem, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return models.OriginalMenuItem{}, repo.ErrOriginalNotFound
}

func (s *memOriginals) CreateOriginal(_ context.Context, item models.OriginalMenuItem) (models.OriginalMenuItem, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *memOriginals) UpdateOriginal(_ context.Context, item models.OriginalMenuItem) error {
	s.items[item.ID] = item
	return nil
}

func (s *memOriginals) DeleteOriginal(_ context.Context, id string) error {
	delete(s.items, id)
	return nil
}

func newTestService(t *testing.T, originals repo.OriginalStore) *Service {
	t.Helper()
	svc, err := NewService(originals, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func codes(items []models.MenuItem) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Code)
	}
	return out
}

func TestListStandard_HidesSizeVariants(t *testing.T) {
	svc := newTestService(t, newMemOriginals())

	all := svc.ListStandard("")
	got := codes(all)
	slices.Sort(got)

	// 2002 carries the large-marker prefix; 3002, 3011 and 4002 are
	// size variants outside the rice category.
	for _, hidden := range []int{2002, 3002, 3011, 4002} {
		if slices.Contains(got, hidden) {
			t.Errorf("variant %d should be hidden from display", hidden)
		}
	}

	// Rice portions are distinct dishes and stay visible.
	for _, visible := range []int{7051, 7052, 7053} {
		if !slices.Contains(got, visible) {
			t.Errorf("rice portion %d missing from display", visible)
		}
	}
}

func TestListStandard_FiltersByCategory(t *testing.T) {
	svc := newTestService(t, newMemOriginals())

	items := svc.ListStandard(models.CategorySoup)
	got := codes(items)
	slices.Sort(got)
	if !slices.Equal(got, []int{8001, 8002}) {
		t.Errorf("soup codes = %v, want [8001 8002]", got)
	}
}

func TestListStandard_SortsByTitle(t *testing.T) {
	svc := newTestService(t, newMemOriginals())

	items := svc.ListStandard(models.CategoryCurry)
	if len(items) != 2 {
		t.Fatalf("curry items = %v, want 2 entries", codes(items))
	}
	// カツカレー sorts before カレーライス in kana order.
	if items[0].Code != 2005 || items[1].Code != 2001 {
		t.Errorf("curry order = %v, want [2005 2001]", codes(items))
	}
}

func TestListOriginals_SortsByTitle(t *testing.T) {
	svc := newTestService(t, newMemOriginals(
		models.OriginalMenuItem{ID: "a", Title: "いちごパフェ", Category: models.CategoryDessert},
		models.OriginalMenuItem{ID: "b", Title: "アイスクリーム", Category: models.CategoryDessert},
	))

	items, err := svc.ListOriginals(context.Background())
	if err != nil {
		t.Fatalf("ListOriginals: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %v, want 2 entries", items)
	}
	// Base sensitivity: katakana ア and hiragana あ collate together, so
	// アイスクリーム precedes いちごパフェ.
	if items[0].ID != "b" || items[1].ID != "a" {
		t.Errorf("order = [%s %s], want [b a]", items[0].ID, items[1].ID)
	}
}

func TestResolve(t *testing.T) {
	svc := newTestService(t, newMemOriginals(
		models.OriginalMenuItem{ID: "abc", Title: "日替わりパスタ", Category: models.CategoryMain},
	))

	tests := []struct {
		name string
		ref  models.MenuRef
		want bool
	}{
		{name: "known standard", ref: models.StandardRef(8001), want: true},
		{name: "unknown standard", ref: models.StandardRef(9999), want: false},
		{name: "known original", ref: models.OriginalRef("abc"), want: true},
		{name: "unknown original", ref: models.OriginalRef("ghost"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Resolve(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestDefaultMonthIDsExistInCatalogue(t *testing.T) {
	svc := newTestService(t, newMemOriginals())

	for _, code := range models.DefaultMonthCommonIDs {
		known, err := svc.Resolve(context.Background(), models.StandardRef(code))
		if err != nil {
			t.Fatalf("Resolve(%d): %v", code, err)
		}
		if !known {
			t.Errorf("default month id %d missing from catalogue", code)
		}
	}
}
