package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the catalog queries rely on.
func (r *MongoCatalogRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	byShopOrder := bson.D{
		{Key: "shopId", Value: 1},
		{Key: "active", Value: 1},
		{Key: "display_order", Value: 1},
	}

	if _, err := r.categories.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shopId", Value: 1}, {Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: byShopOrder},
	}); err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}

	if _, err := r.services.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shopId", Value: 1}, {Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: byShopOrder},
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}

	if _, err := r.upsells.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shopId", Value: 1}, {Key: "mainServiceId", Value: 1}, {Key: "active", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create upsell indexes: %w", err)
	}
	return nil
}
