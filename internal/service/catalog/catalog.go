package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/funchapp/funch-server/internal/domain/models"
	repo "github.com/funchapp/funch-server/internal/repository/mongodb"
)

//go:embed standard_menu.json
var standardMenuJSON []byte

// sizeMarkers tag portion variants of a base item. Variant rows exist in
// the catalogue for pricing but are collapsed into the base entry for
// display, except in the rice category where each portion is its own dish.
var sizeMarkers = []string{"（大）", "（小）", "（ミニ）", "(大)", "(小)", "(ミニ)"}

const largePrefixFullWidth = "（大）"
const largePrefixASCII = "(大)"

// Service exposes the immutable standard catalogue and the original-menu
// list to the engine and display layers.
type Service struct {
	originals repo.OriginalStore
	items     []models.MenuItem
	byCode    map[int]models.MenuItem
	logger    *zap.Logger

	mu       sync.Mutex
	collator *collate.Collator
}

// NewService parses the embedded standard catalogue and wires the
// original-menu store.
func NewService(originals repo.OriginalStore, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var items []models.MenuItem
	if err := json.Unmarshal(standardMenuJSON, &items); err != nil {
		return nil, fmt.Errorf("parse standard catalogue: %w", err)
	}

	byCode := make(map[int]models.MenuItem, len(items))
	for _, item := range items {
		byCode[item.Code] = item
	}

	return &Service{
		originals: originals,
		items:     items,
		byCode:    byCode,
		logger:    logger,
		// Base sensitivity: case, width and diacritic differences are
		// ignored when ordering titles.
		collator: collate.New(language.Japanese, collate.Loose),
	}, nil
}

// AllStandard returns every catalogue row, variants included.
func (s *Service) AllStandard() []models.MenuItem {
	out := make([]models.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

// ListStandard returns the displayable catalogue for one category, or
// for all categories when category is empty, sorted by title with
// Japanese collation. Size-variant rows are filtered out so that only
// the addable logical entries remain.
func (s *Service) ListStandard(category models.Category) []models.MenuItem {
	var out []models.MenuItem
	for _, item := range s.items {
		if category != "" && item.Category != category {
			continue
		}
		if !displayable(item) {
			continue
		}
		out = append(out, item)
	}

	s.sortByTitle(out)
	return out
}

// ListOriginals returns every original menu item sorted by title.
func (s *Service) ListOriginals(ctx context.Context) ([]models.OriginalMenuItem, error) {
	items, err := s.originals.ListOriginals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load original menus: %w", err)
	}

	s.mu.Lock()
	sort.SliceStable(items, func(i, j int) bool {
		return s.collator.CompareString(items[i].Title, items[j].Title) < 0
	})
	s.mu.Unlock()

	return items, nil
}

// Resolve reports whether the referenced item exists in the catalogue or
// the original-menu store.
func (s *Service) Resolve(ctx context.Context, ref models.MenuRef) (bool, error) {
	if err := ref.Validate(); err != nil {
		return false, err
	}

	if !ref.IsOriginal() {
		_, ok := s.byCode[ref.Code]
		return ok, nil
	}

	_, err := s.originals.GetOriginal(ctx, ref.ID)
	if errors.Is(err, repo.ErrOriginalNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) sortByTitle(items []models.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(items, func(i, j int) bool {
		return s.collator.CompareString(items[i].Title, items[j].Title) < 0
	})
}

// displayable applies the catalogue display rule: rows whose title leads
// with the large-size marker never show; outside the rice category any
// size-marked variant row is hidden as well.
func displayable(item models.MenuItem) bool {
	if strings.HasPrefix(item.Title, largePrefixFullWidth) || strings.HasPrefix(item.Title, largePrefixASCII) {
		return false
	}
	if item.Category == models.CategoryRice {
		return true
	}
	for _, marker := range sizeMarkers {
		if strings.Contains(item.Title, marker) {
			return false
		}
	}
	return true
}
