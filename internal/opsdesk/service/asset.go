package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/blobx"
	"github.com/aussiebroadwan/opsdesk/pkg/idx"
)

const assetImageFolder = "assets"

type AssetService struct {
	Store store.Store
	Blobs blobx.Store
}

type CreateAssetParams struct {
	Code        string
	Name        string
	Type        domain.AssetType
	Description string
	Vendor      string
	Model       string
	PurchaseURL string
	Images      []ImageFile
}

// UpdateAssetParams patches an asset; nil fields are left unchanged.
type UpdateAssetParams struct {
	Name        *string
	Type        *domain.AssetType
	Description *string
	Vendor      *string
	Model       *string
	PurchaseURL *string
}

// Create inserts a new asset after a uniqueness precheck on code. The
// store's unique index backs the precheck up; its duplicate-key error
// comes back as store.ErrAlreadyExists either way. Initial images are
// uploaded before the insert so a failed upload creates nothing.
func (s *AssetService) Create(ctx context.Context, p CreateAssetParams, actor string) (domain.Asset, error) {
	if p.Code == "" || p.Name == "" {
		return domain.Asset{}, errors.Join(ErrValidation, errors.New("code and name are required"))
	}

	if _, err := s.Store.Assets().GetByCode(ctx, p.Code); err == nil {
		return domain.Asset{}, store.ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Asset{}, err
	}

	refs := make([]string, 0, len(p.Images))
	for i, f := range p.Images {
		ref, err := s.Blobs.Upload(ctx, f.Data, f.ContentType, assetImageFolder)
		if err != nil {
			return domain.Asset{}, fmt.Errorf("upload image %d of %d: %w", i+1, len(p.Images), err)
		}
		refs = append(refs, ref)
	}

	now := time.Now().UTC()
	a := domain.Asset{
		ID:          idx.New().String(),
		Code:        p.Code,
		Name:        p.Name,
		Type:        p.Type,
		Description: p.Description,
		Vendor:      p.Vendor,
		Model:       p.Model,
		PurchaseURL: p.PurchaseURL,
		ImageURLs:   refs,
		Active:      true,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.Assets().Create(ctx, a); err != nil {
		return domain.Asset{}, err
	}
	return a, nil
}

func (s *AssetService) Get(ctx context.Context, id string) (domain.Asset, error) {
	return s.Store.Assets().GetByID(ctx, id)
}

func (s *AssetService) List(ctx context.Context, f domain.AssetFilter, spec store.PageSpec) (domain.Page[domain.Asset], error) {
	return s.Store.Assets().List(ctx, f, spec)
}

func (s *AssetService) Update(ctx context.Context, id string, p UpdateAssetParams, actor string) (domain.Asset, error) {
	a, err := s.Store.Assets().GetByID(ctx, id)
	if err != nil {
		return domain.Asset{}, err
	}

	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Vendor != nil {
		a.Vendor = *p.Vendor
	}
	if p.Model != nil {
		a.Model = *p.Model
	}
	if p.PurchaseURL != nil {
		a.PurchaseURL = *p.PurchaseURL
	}

	a.UpdatedBy = actor
	a.UpdatedAt = time.Now().UTC()

	if err := s.Store.Assets().Update(ctx, a); err != nil {
		return domain.Asset{}, err
	}
	return a, nil
}

// Retire soft-deletes: the record stays, active flips off.
func (s *AssetService) Retire(ctx context.Context, id, actor string) (domain.Asset, error) {
	a, err := s.Store.Assets().GetByID(ctx, id)
	if err != nil {
		return domain.Asset{}, err
	}

	a.Active = false
	a.UpdatedBy = actor
	a.UpdatedAt = time.Now().UTC()

	if err := s.Store.Assets().Update(ctx, a); err != nil {
		return domain.Asset{}, err
	}
	return a, nil
}

type CreateItemsParams struct {
	Quantity      int
	SerialNumbers []string // optional, positional; generated when absent
	LocationID    string
	OwnerDeptID   string
	Note          string
}

// CreateItems mints Quantity deployable items under an asset. Item
// codes continue the per-asset sequence ("CAM-001-004" after three
// existing items); serial numbers are generated when not supplied.
func (s *AssetService) CreateItems(ctx context.Context, assetID string, p CreateItemsParams, actor string) ([]domain.Item, error) {
	if p.Quantity < 1 {
		return nil, errors.Join(ErrValidation, errors.New("quantity must be at least 1"))
	}
	if len(p.SerialNumbers) > 0 && len(p.SerialNumbers) != p.Quantity {
		return nil, errors.Join(ErrValidation, errors.New("serial numbers must match quantity"))
	}

	asset, err := s.Store.Assets().GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	count, err := s.Store.Items().CountByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]domain.Item, p.Quantity)
	for i := range items {
		serial := ""
		if len(p.SerialNumbers) > 0 {
			serial = p.SerialNumbers[i]
		}
		if serial == "" {
			serial, err = newSerialNumber(now)
			if err != nil {
				return nil, err
			}
		}

		items[i] = domain.Item{
			ID:           idx.New().String(),
			AssetID:      assetID,
			Code:         fmt.Sprintf("%s-%03d", asset.Code, count+int64(i)+1),
			SerialNumber: serial,
			Status:       domain.ItemActive,
			LocationID:   p.LocationID,
			OwnerDeptID:  p.OwnerDeptID,
			Note:         p.Note,
			CreatedBy:    actor,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	if err := s.Store.Items().CreateMany(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *AssetService) AddImages(ctx context.Context, id string, files []ImageFile, actor string) (domain.Asset, error) {
	return addImages(ctx, s.Blobs, assetImageFolder, id, files, actor,
		s.Store.Assets().GetByID,
		func(a domain.Asset) []string { return a.ImageURLs },
		s.Store.Assets().ReplaceImages,
	)
}

func (s *AssetService) RemoveImage(ctx context.Context, id string, index int, actor string) (domain.Asset, error) {
	return removeImage(ctx, s.Blobs, id, index, actor,
		s.Store.Assets().GetByID,
		func(a domain.Asset) []string { return a.ImageURLs },
		s.Store.Assets().ReplaceImages,
	)
}

const serialCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newSerialNumber mints "SN-<year>-<6 random base36 chars>".
func newSerialNumber(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate serial: %w", err)
	}
	for i, b := range buf {
		buf[i] = serialCharset[int(b)%len(serialCharset)]
	}
	return fmt.Sprintf("SN-%d-%s", now.Year(), buf), nil
}
