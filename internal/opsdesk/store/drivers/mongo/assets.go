package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type assetsRepo struct {
	c *mongo.Collection
}

func (r *assetsRepo) GetByID(ctx context.Context, id string) (domain.Asset, error) {
	var doc assetDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.Asset{}, mapFindErr(err)
	}
	return assetFromDoc(doc), nil
}

func (r *assetsRepo) GetByCode(ctx context.Context, code string) (domain.Asset, error) {
	var doc assetDoc
	if err := r.c.FindOne(ctx, bson.M{"code": code}).Decode(&doc); err != nil {
		return domain.Asset{}, mapFindErr(err)
	}
	return assetFromDoc(doc), nil
}

func (r *assetsRepo) Create(ctx context.Context, a domain.Asset) error {
	_, err := r.c.InsertOne(ctx, assetToDoc(a))
	return mapWriteErr(err)
}

func (r *assetsRepo) Update(ctx context.Context, a domain.Asset) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": a.ID}, assetToDoc(a))
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *assetsRepo) List(ctx context.Context, f domain.AssetFilter, spec store.PageSpec) (domain.Page[domain.Asset], error) {
	filter := bson.M{}
	if f.Code != "" {
		filter["code"] = partialMatch(f.Code)
	}
	if f.Name != "" {
		filter["name"] = partialMatch(f.Name)
	}
	if f.Vendor != "" {
		filter["vendor"] = partialMatch(f.Vendor)
	}
	if f.Model != "" {
		filter["model"] = partialMatch(f.Model)
	}
	if f.Type != nil {
		filter["type"] = string(*f.Type)
	}
	if f.Active != nil {
		filter["active"] = *f.Active
	}
	if f.CreatedBy != "" {
		filter["createdBy"] = f.CreatedBy
	}
	return findPage(ctx, r.c, filter, spec, assetFromDoc)
}

func (r *assetsRepo) ReplaceImages(ctx context.Context, id string, prevLen int, images []string, updatedBy string) (domain.Asset, error) {
	doc, err := replaceImages[assetDoc](ctx, r.c, id, prevLen, images, updatedBy)
	if err != nil {
		return domain.Asset{}, err
	}
	return assetFromDoc(doc), nil
}
