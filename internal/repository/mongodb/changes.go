package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/funchapp/funch-server/internal/domain/models"
)

// ChangeStore persists pending add/remove intentions per period. Writes
// patch individual id-keyed fields so concurrent edits to different
// items never clobber each other; edits to the same id are last-write-wins.
type ChangeStore interface {
	GetChangeMap(ctx context.Context, period models.Period) (models.ChangeMap, error)
	SetChange(ctx context.Context, period models.Period, ref models.MenuRef, pending bool) error
	DeleteChange(ctx context.Context, period models.Period, ref models.MenuRef) error
	ClearChangeMap(ctx context.Context, period models.Period) error
	ListPendingPeriods(ctx context.Context) ([]models.Period, error)
}

type changeDoc struct {
	Key             string          `bson:"_id"`
	CommonChanges   map[string]bool `bson:"common_menu_changes,omitempty"`
	OriginalChanges map[string]bool `bson:"original_menu_changes,omitempty"`
}

func changesCollection(kind models.PeriodKind) string {
	if kind == models.PeriodMonth {
		return monthlyChangesCollection
	}
	return dailyChangesCollection
}

func changeField(ref models.MenuRef) string {
	if ref.IsOriginal() {
		return "original_menu_changes." + ref.Key()
	}
	return "common_menu_changes." + ref.Key()
}

// GetChangeMap loads the pending changes for one period; a missing
// document reads as an empty map.
func (r *Repository) GetChangeMap(ctx context.Context, period models.Period) (models.ChangeMap, error) {
	var doc changeDoc
	err := r.collection(changesCollection(period.Kind)).FindOne(ctx, bson.M{"_id": period.Key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewChangeMap(), nil
	}
	if err != nil {
		return models.ChangeMap{}, fmt.Errorf("load change map %s: %w", period, err)
	}

	cm := models.NewChangeMap()
	for k, v := range doc.CommonChanges {
		cm.CommonChanges[k] = v
	}
	for k, v := range doc.OriginalChanges {
		cm.OriginalChanges[k] = v
	}
	return cm, nil
}

// SetChange records a pending add (true) or remove (false) for one item,
// creating the period document when absent.
func (r *Repository) SetChange(ctx context.Context, period models.Period, ref models.MenuRef, pending bool) error {
	update := bson.M{"$set": bson.M{changeField(ref): pending}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection(changesCollection(period.Kind)).UpdateOne(ctx, bson.M{"_id": period.Key}, update, opts); err != nil {
		return fmt.Errorf("patch change %s %s: %w", period, ref, err)
	}
	return nil
}

// DeleteChange erases one item's pending entry entirely.
func (r *Repository) DeleteChange(ctx context.Context, period models.Period, ref models.MenuRef) error {
	update := bson.M{"$unset": bson.M{changeField(ref): ""}}
	if _, err := r.collection(changesCollection(period.Kind)).UpdateOne(ctx, bson.M{"_id": period.Key}, update); err != nil {
		return fmt.Errorf("unset change %s %s: %w", period, ref, err)
	}
	return nil
}

// ClearChangeMap drops the whole pending record for one period.
func (r *Repository) ClearChangeMap(ctx context.Context, period models.Period) error {
	if _, err := r.collection(changesCollection(period.Kind)).DeleteOne(ctx, bson.M{"_id": period.Key}); err != nil {
		return fmt.Errorf("clear change map %s: %w", period, err)
	}
	return nil
}

// ListPendingPeriods discovers every period, day or month, that still
// carries at least one pending entry.
func (r *Repository) ListPendingPeriods(ctx context.Context) ([]models.Period, error) {
	var periods []models.Period

	for _, kind := range []models.PeriodKind{models.PeriodDay, models.PeriodMonth} {
		cursor, err := r.collection(changesCollection(kind)).Find(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("list %s change maps: %w", kind, err)
		}

		var docs []changeDoc
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("decode %s change maps: %w", kind, err)
		}

		for _, doc := range docs {
			if len(doc.CommonChanges) == 0 && len(doc.OriginalChanges) == 0 {
				continue
			}
			periods = append(periods, models.Period{Kind: kind, Key: doc.Key})
		}
	}

	return periods, nil
}
