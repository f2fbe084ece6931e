package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type usersRepo struct {
	c *mongo.Collection
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, bson.M{"username": username})
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

func (r *usersRepo) getOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var doc userDoc
	if err := r.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.User{}, mapFindErr(err)
	}
	return userFromDoc(doc), nil
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.c.InsertOne(ctx, userToDoc(u))
	return mapWriteErr(err)
}

func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": u.ID}, userToDoc(u))
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) List(ctx context.Context, f domain.UserFilter, spec store.PageSpec) (domain.Page[domain.User], error) {
	filter := bson.M{}
	if f.Username != "" {
		filter["username"] = partialMatch(f.Username)
	}
	if f.Email != "" {
		filter["email"] = partialMatch(f.Email)
	}
	if f.Name != "" {
		filter["name"] = partialMatch(f.Name)
	}
	if f.Role != nil {
		filter["role"] = string(*f.Role)
	}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if f.DeptID != "" {
		filter["deptId"] = f.DeptID
	}
	return findPage(ctx, r.c, filter, spec, userFromDoc)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("mongo: count users: %w", err)
	}
	return n == 0, nil
}
