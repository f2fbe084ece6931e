package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type deptsRepo struct {
	c *mongo.Collection
}

func (r *deptsRepo) GetByID(ctx context.Context, id string) (domain.Department, error) {
	var doc deptDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.Department{}, mapFindErr(err)
	}
	return deptFromDoc(doc), nil
}

func (r *deptsRepo) GetByCode(ctx context.Context, code string) (domain.Department, error) {
	var doc deptDoc
	if err := r.c.FindOne(ctx, bson.M{"code": code}).Decode(&doc); err != nil {
		return domain.Department{}, mapFindErr(err)
	}
	return deptFromDoc(doc), nil
}

func (r *deptsRepo) Create(ctx context.Context, d domain.Department) error {
	_, err := r.c.InsertOne(ctx, deptToDoc(d))
	return mapWriteErr(err)
}

func (r *deptsRepo) Update(ctx context.Context, d domain.Department) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": d.ID}, deptToDoc(d))
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *deptsRepo) List(ctx context.Context, activeOnly bool, spec store.PageSpec) (domain.Page[domain.Department], error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	return findPage(ctx, r.c, filter, spec, deptFromDoc)
}
