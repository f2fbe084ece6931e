package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type itemsRepo struct {
	c *mongo.Collection
}

func (r *itemsRepo) GetByID(ctx context.Context, id string) (domain.Item, error) {
	var doc itemDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.Item{}, mapFindErr(err)
	}
	return itemFromDoc(doc), nil
}

func (r *itemsRepo) Create(ctx context.Context, i domain.Item) error {
	_, err := r.c.InsertOne(ctx, itemToDoc(i))
	return mapWriteErr(err)
}

func (r *itemsRepo) CreateMany(ctx context.Context, items []domain.Item) error {
	docs := make([]any, len(items))
	for i, item := range items {
		docs[i] = itemToDoc(item)
	}
	_, err := r.c.InsertMany(ctx, docs)
	return mapWriteErr(err)
}

func (r *itemsRepo) Update(ctx context.Context, i domain.Item) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": i.ID}, itemToDoc(i))
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *itemsRepo) ListByAsset(ctx context.Context, assetID string, spec store.PageSpec) (domain.Page[domain.Item], error) {
	return findPage(ctx, r.c, bson.M{"assetId": assetID}, spec, itemFromDoc)
}

func (r *itemsRepo) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"assetId": assetID})
	if err != nil {
		return 0, fmt.Errorf("mongo: count items: %w", err)
	}
	return n, nil
}
