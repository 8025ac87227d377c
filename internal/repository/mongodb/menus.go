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

// MembershipStore persists the committed day and month menus. A missing
// day document reads as an empty menu; a missing month document reads as
// the hard-coded default common set (fallback only, never written back).
type MembershipStore interface {
	GetDayMembership(ctx context.Context, date string) (models.Membership, error)
	GetMonthMembership(ctx context.Context, month string) (models.Membership, error)
	SetDayMembership(ctx context.Context, date string, m models.Membership) error
	SetMonthMembership(ctx context.Context, month string, m models.Membership) error
}

type menuDoc struct {
	Key         string   `bson:"_id"`
	CommonIDs   []int    `bson:"common_ids"`
	OriginalIDs []string `bson:"original_ids"`
}

// GetDayMembership loads the committed menu for one date.
func (r *Repository) GetDayMembership(ctx context.Context, date string) (models.Membership, error) {
	var doc menuDoc
	err := r.collection(dailyMenuCollection).FindOne(ctx, bson.M{"_id": date}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Membership{}, nil
	}
	if err != nil {
		return models.Membership{}, fmt.Errorf("load day menu %s: %w", date, err)
	}
	return models.Membership{CommonIDs: doc.CommonIDs, OriginalIDs: doc.OriginalIDs}, nil
}

// GetMonthMembership loads the committed common menu for one month.
func (r *Repository) GetMonthMembership(ctx context.Context, month string) (models.Membership, error) {
	var doc menuDoc
	err := r.collection(monthlyMenuCollection).FindOne(ctx, bson.M{"_id": month}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultMonthMembership(), nil
	}
	if err != nil {
		return models.Membership{}, fmt.Errorf("load month menu %s: %w", month, err)
	}
	return models.Membership{CommonIDs: doc.CommonIDs, OriginalIDs: doc.OriginalIDs}, nil
}

// SetDayMembership overwrites the committed menu for one date.
func (r *Repository) SetDayMembership(ctx context.Context, date string, m models.Membership) error {
	return r.replaceMenu(ctx, dailyMenuCollection, date, m)
}

// SetMonthMembership overwrites the committed common menu for one month.
func (r *Repository) SetMonthMembership(ctx context.Context, month string, m models.Membership) error {
	return r.replaceMenu(ctx, monthlyMenuCollection, month, m)
}

// replaceMenu is a full-document overwrite, not a patch: confirmation
// materializes the merged membership in one write.
func (r *Repository) replaceMenu(ctx context.Context, coll string, key string, m models.Membership) error {
	doc := menuDoc{Key: key, CommonIDs: m.CommonIDs, OriginalIDs: m.OriginalIDs}
	if doc.CommonIDs == nil {
		doc.CommonIDs = []int{}
	}
	if doc.OriginalIDs == nil {
		doc.OriginalIDs = []string{}
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(coll).ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("write menu %s/%s: %w", coll, key, err)
	}
	return nil
}
