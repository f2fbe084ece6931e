package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type ItemService struct {
	Store store.Store
}

// UpdateItemParams patches an item; nil fields are left unchanged.
type UpdateItemParams struct {
	Status      *domain.ItemStatus
	LocationID  *string
	OwnerDeptID *string
	Note        *string
}

func (s *ItemService) Get(ctx context.Context, id string) (domain.Item, error) {
	return s.Store.Items().GetByID(ctx, id)
}

func (s *ItemService) ListByAsset(ctx context.Context, assetID string, spec store.PageSpec) (domain.Page[domain.Item], error) {
	// Listing under a missing asset is a 404, not an empty page.
	if _, err := s.Store.Assets().GetByID(ctx, assetID); err != nil {
		return domain.Page[domain.Item]{}, err
	}
	return s.Store.Items().ListByAsset(ctx, assetID, spec)
}

func (s *ItemService) Update(ctx context.Context, id string, p UpdateItemParams, actor string) (domain.Item, error) {
	i, err := s.Store.Items().GetByID(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}

	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.LocationID != nil {
		i.LocationID = *p.LocationID
	}
	if p.OwnerDeptID != nil {
		i.OwnerDeptID = *p.OwnerDeptID
	}
	if p.Note != nil {
		i.Note = *p.Note
	}

	i.UpdatedBy = actor
	i.UpdatedAt = time.Now().UTC()

	if err := s.Store.Items().Update(ctx, i); err != nil {
		return domain.Item{}, err
	}
	return i, nil
}

// Retire soft-deletes an item by flipping its status.
func (s *ItemService) Retire(ctx context.Context, id, actor string) (domain.Item, error) {
	retired := domain.ItemRetired
	return s.Update(ctx, id, UpdateItemParams{Status: &retired}, actor)
}
