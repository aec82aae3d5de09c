package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thewinery/selforder/internal/menu"
)

type MenuRepo struct {
	collection *mongo.Collection
}

func NewMenuRepo(db *mongo.Database) *MenuRepo {
	return &MenuRepo{
		collection: db.Collection("menu_items"),
	}
}

// ListAvailable returns every item currently offered, in display order.
func (r *MenuRepo) ListAvailable(ctx context.Context) ([]*menu.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"available": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*menu.MenuItem
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode menu items: %w", err)
	}
	return result, nil
}

// GetByShortCode returns a single item, nil when absent.
func (r *MenuRepo) GetByShortCode(ctx context.Context, code string) (*menu.MenuItem, error) {
	var item menu.MenuItem
	err := r.collection.FindOne(ctx, bson.M{"short_code": code}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get menu item: %w", err)
	}
	return &item, nil
}

// Upsert creates or replaces an item keyed by short code. Seeding uses it
// so reruns stay idempotent.
func (r *MenuRepo) Upsert(ctx context.Context, item *menu.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is nil")
	}
	item.EnsureID()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"short_code": item.ShortCode}, item, opts)
	if err != nil {
		return fmt.Errorf("cannot upsert menu item %s: %w", item.ShortCode, err)
	}
	return nil
}
