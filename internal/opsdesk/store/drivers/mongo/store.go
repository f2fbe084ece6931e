package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

const (
	collUsers       = "users"
	collDepartments = "departments"
	collAssets      = "assets"
	collItems       = "items"
	collTickets     = "tickets"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore dials MongoDB and returns a store bound to dbName. The
// caller owns ctx and should bound it; connection pool sizing follows
// the driver defaults.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Users() store.Users             { return &usersRepo{c: s.db.Collection(collUsers)} }
func (s *Store) Departments() store.Departments { return &deptsRepo{c: s.db.Collection(collDepartments)} }
func (s *Store) Assets() store.Assets           { return &assetsRepo{c: s.db.Collection(collAssets)} }
func (s *Store) Items() store.Items             { return &itemsRepo{c: s.db.Collection(collItems)} }
func (s *Store) Tickets() store.Tickets         { return &ticketsRepo{c: s.db.Collection(collTickets)} }

// EnsureIndexes creates the unique indexes backing the natural keys.
// Uniqueness prechecks in the services are racy by nature; these
// indexes are what actually enforces the invariant.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collDepartments: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		},
		collAssets: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		},
		collItems: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "assetId", Value: 1}}},
		},
		collTickets: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "assetItemIds", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// mapWriteErr reclassifies driver errors into store sentinels.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func mapFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// partialMatch builds a case-insensitive substring matcher with the
// needle regex-escaped.
func partialMatch(s string) bson.M {
	return bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}
}

func sortDoc(spec store.PageSpec) bson.D {
	dir := 1
	if spec.Desc {
		dir = -1
	}
	return bson.D{{Key: spec.SortBy, Value: dir}}
}

// findPage runs the count and the find against the identical filter so
// the envelope's totals stay consistent with its items. No snapshot
// isolation: a page observed under concurrent writes is approximate.
func findPage[D, T any](
	ctx context.Context,
	c *mongo.Collection,
	filter bson.M,
	spec store.PageSpec,
	conv func(D) T,
) (domain.Page[T], error) {
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("mongo: count %s: %w", c.Name(), err)
	}

	opts := options.Find().
		SetSort(sortDoc(spec)).
		SetSkip(int64(spec.Skip())).
		SetLimit(int64(spec.PageSize))

	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("mongo: find %s: %w", c.Name(), err)
	}

	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return domain.Page[T]{}, fmt.Errorf("mongo: decode %s: %w", c.Name(), err)
	}

	items := make([]T, len(docs))
	for i, d := range docs {
		items[i] = conv(d)
	}
	return domain.NewPage(items, total, spec.Page, spec.PageSize), nil
}

// replaceImages swaps the imageUrls list under a $size precondition on
// the previous length. With the precondition in the filter a document
// that exists but has moved on matches nothing, which we surface as
// ErrConflict after an existence probe.
func replaceImages[D any](
	ctx context.Context,
	c *mongo.Collection,
	id string,
	prevLen int,
	images []string,
	updatedBy string,
) (D, error) {
	var doc D

	if images == nil {
		images = []string{}
	}

	filter := bson.M{
		"_id":       id,
		"imageUrls": bson.M{"$size": prevLen},
	}
	update := bson.M{"$set": bson.M{
		"imageUrls": images,
		"updatedBy": updatedBy,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err := c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("mongo: replace images in %s: %w", c.Name(), err)
	}

	// Missing or stale? Probe for the document itself.
	probe := c.FindOne(ctx, bson.M{"_id": id})
	if errors.Is(probe.Err(), mongo.ErrNoDocuments) {
		return doc, store.ErrNotFound
	}
	if probe.Err() != nil {
		return doc, fmt.Errorf("mongo: probe %s: %w", c.Name(), probe.Err())
	}
	return doc, store.ErrConflict
}
