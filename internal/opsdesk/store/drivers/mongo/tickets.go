package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type ticketsRepo struct {
	c *mongo.Collection
}

func (r *ticketsRepo) GetByID(ctx context.Context, id string) (domain.Ticket, error) {
	var doc ticketDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.Ticket{}, mapFindErr(err)
	}
	return ticketFromDoc(doc), nil
}

func (r *ticketsRepo) GetByCode(ctx context.Context, code string) (domain.Ticket, error) {
	var doc ticketDoc
	if err := r.c.FindOne(ctx, bson.M{"code": code}).Decode(&doc); err != nil {
		return domain.Ticket{}, mapFindErr(err)
	}
	return ticketFromDoc(doc), nil
}

func (r *ticketsRepo) Create(ctx context.Context, t domain.Ticket) error {
	_, err := r.c.InsertOne(ctx, ticketToDoc(t))
	return mapWriteErr(err)
}

func (r *ticketsRepo) Update(ctx context.Context, t domain.Ticket) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": t.ID}, ticketToDoc(t))
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ticketsRepo) List(ctx context.Context, f domain.TicketFilter, spec store.PageSpec) (domain.Page[domain.Ticket], error) {
	filter := bson.M{}
	if f.Code != "" {
		filter["code"] = partialMatch(f.Code)
	}
	if f.Title != "" {
		filter["title"] = partialMatch(f.Title)
	}
	if f.Type != nil {
		filter["type"] = string(*f.Type)
	}
	if f.Priority != nil {
		filter["priority"] = string(*f.Priority)
	}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if len(f.AssetItemIDs) > 0 {
		filter["assetItemIds"] = bson.M{"$all": f.AssetItemIDs}
	}
	if f.AssigneeID != "" {
		filter["assigneeId"] = f.AssigneeID
	}
	if f.LocationID != "" {
		filter["locationId"] = f.LocationID
	}
	if f.CreatedBy != "" {
		filter["createdBy"] = f.CreatedBy
	}
	if f.StartDueAt != nil || f.EndDueAt != nil {
		// Inclusive bounds; one side absent leaves a half-open range.
		due := bson.M{}
		if f.StartDueAt != nil {
			due["$gte"] = *f.StartDueAt
		}
		if f.EndDueAt != nil {
			due["$lte"] = *f.EndDueAt
		}
		filter["dueAt"] = due
	}
	return findPage(ctx, r.c, filter, spec, ticketFromDoc)
}

func (r *ticketsRepo) ReplaceImages(ctx context.Context, id string, prevLen int, images []string, updatedBy string) (domain.Ticket, error) {
	doc, err := replaceImages[ticketDoc](ctx, r.c, id, prevLen, images, updatedBy)
	if err != nil {
		return domain.Ticket{}, err
	}
	return ticketFromDoc(doc), nil
}
