package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/funchapp/funch-server/internal/domain/models"
)

// ErrOriginalNotFound indicates the referenced original item does not exist.
var ErrOriginalNotFound = errors.New("original menu item not found")

// OriginalStore is the CRUD surface for operator-authored menu items.
type OriginalStore interface {
	ListOriginals(ctx context.Context) ([]models.OriginalMenuItem, error)
	GetOriginal(ctx context.Context, id string) (models.OriginalMenuItem, error)
	CreateOriginal(ctx context.Context, item models.OriginalMenuItem) (models.OriginalMenuItem, error)
	UpdateOriginal(ctx context.Context, item models.OriginalMenuItem) error
	DeleteOriginal(ctx context.Context, id string) error
}

// ListOriginals returns every original menu item.
func (r *Repository) ListOriginals(ctx context.Context) ([]models.OriginalMenuItem, error) {
	cursor, err := r.collection(originalMenuCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list original menus: %w", err)
	}

	var items []models.OriginalMenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode original menus: %w", err)
	}
	return items, nil
}

// GetOriginal loads one original menu item by id.
func (r *Repository) GetOriginal(ctx context.Context, id string) (models.OriginalMenuItem, error) {
	var item models.OriginalMenuItem
	err := r.collection(originalMenuCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.OriginalMenuItem{}, ErrOriginalNotFound
	}
	if err != nil {
		return models.OriginalMenuItem{}, fmt.Errorf("load original menu %s: %w", id, err)
	}
	return item, nil
}

// CreateOriginal inserts a new original menu item and returns it with
// its generated id and timestamps set.
func (r *Repository) CreateOriginal(ctx context.Context, item models.OriginalMenuItem) (models.OriginalMenuItem, error) {
	now := time.Now()
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := r.collection(originalMenuCollection).InsertOne(ctx, item); err != nil {
		return models.OriginalMenuItem{}, fmt.Errorf("insert original menu: %w", err)
	}
	return item, nil
}

// UpdateOriginal overwrites an existing original menu item.
func (r *Repository) UpdateOriginal(ctx context.Context, item models.OriginalMenuItem) error {
	item.UpdatedAt = time.Now()

	res, err := r.collection(originalMenuCollection).ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("update original menu %s: %w", item.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrOriginalNotFound
	}
	return nil
}

// DeleteOriginal removes one original menu item.
func (r *Repository) DeleteOriginal(ctx context.Context, id string) error {
	res, err := r.collection(originalMenuCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete original menu %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrOriginalNotFound
	}
	return nil
}
