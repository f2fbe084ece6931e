package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store/drivers/memory"
	"github.com/aussiebroadwan/opsdesk/pkg/blobx"
)

func newAssetEnv() (*AssetService, *blobx.MemoryStore) {
	blobs := blobx.NewMemoryStore()
	return &AssetService{Store: memory.NewStore(), Blobs: blobs}, blobs
}

func TestAssetCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assets, _ := newAssetEnv()

	created, err := assets.Create(ctx, CreateAssetParams{
		Code: "CAM-001",
		Name: "Lobby camera",
		Type: domain.AssetDevice,
	}, "admin-1")
	require.NoError(t, err)
	require.True(t, created.Active)
	require.Equal(t, "admin-1", created.CreatedBy)

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		_, err := assets.Create(ctx, CreateAssetParams{
			Code: "CAM-001",
			Name: "Another camera",
			Type: domain.AssetDevice,
		}, "admin-1")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing code is a validation error", func(t *testing.T) {
		_, err := assets.Create(ctx, CreateAssetParams{Name: "No code"}, "admin-1")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("retire flips active off", func(t *testing.T) {
		retired, err := assets.Retire(ctx, created.ID, "admin-2")
		require.NoError(t, err)
		require.False(t, retired.Active)
		require.Equal(t, "admin-2", retired.UpdatedBy)
	})
}

func TestAssetCreateWithInitialImages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assets, blobs := newAssetEnv()

	t.Run("initial images are uploaded and attached", func(t *testing.T) {
		created, err := assets.Create(ctx, CreateAssetParams{
			Code:   "PRJ-001",
			Name:   "Projector",
			Type:   domain.AssetAppliance,
			Images: []ImageFile{{Data: []byte("a"), ContentType: "image/png"}},
		}, "admin-1")
		require.NoError(t, err)
		require.Len(t, created.ImageURLs, 1)
		require.True(t, blobs.Has(created.ImageURLs[0]))
	})

	t.Run("upload failure creates nothing", func(t *testing.T) {
		blobs.FailUploads = true
		defer func() { blobs.FailUploads = false }()

		_, err := assets.Create(ctx, CreateAssetParams{
			Code:   "PRJ-002",
			Name:   "Projector",
			Type:   domain.AssetAppliance,
			Images: []ImageFile{{Data: []byte("a"), ContentType: "image/png"}},
		}, "admin-1")
		require.ErrorIs(t, err, blobx.ErrUnavailable)

		_, err = assets.Store.Assets().GetByCode(ctx, "PRJ-002")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCreateItems(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assets, _ := newAssetEnv()

	asset, err := assets.Create(ctx, CreateAssetParams{
		Code: "CAM-001",
		Name: "Lobby camera",
		Type: domain.AssetDevice,
	}, "admin-1")
	require.NoError(t, err)

	serialRe := regexp.MustCompile(`^SN-\d{4}-[0-9A-Z]{6}$`)

	t.Run("codes continue the per-asset sequence", func(t *testing.T) {
		first, err := assets.CreateItems(ctx, asset.ID, CreateItemsParams{Quantity: 3}, "admin-1")
		require.NoError(t, err)
		require.Len(t, first, 3)
		for i, item := range first {
			require.Equal(t, fmt.Sprintf("CAM-001-%03d", i+1), item.Code)
			require.Equal(t, domain.ItemActive, item.Status)
			require.Regexp(t, serialRe, item.SerialNumber)
		}

		second, err := assets.CreateItems(ctx, asset.ID, CreateItemsParams{Quantity: 2}, "admin-1")
		require.NoError(t, err)
		require.Equal(t, "CAM-001-004", second[0].Code)
		require.Equal(t, "CAM-001-005", second[1].Code)
	})

	t.Run("supplied serial numbers are kept", func(t *testing.T) {
		items, err := assets.CreateItems(ctx, asset.ID, CreateItemsParams{
			Quantity:      1,
			SerialNumbers: []string{"SN-CUSTOM-42"},
		}, "admin-1")
		require.NoError(t, err)
		require.Equal(t, "SN-CUSTOM-42", items[0].SerialNumber)
	})

	t.Run("serial count must match quantity", func(t *testing.T) {
		_, err := assets.CreateItems(ctx, asset.ID, CreateItemsParams{
			Quantity:      2,
			SerialNumbers: []string{"only-one"},
		}, "admin-1")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown asset is not found", func(t *testing.T) {
		_, err := assets.CreateItems(ctx, "ghost", CreateItemsParams{Quantity: 1}, "admin-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestItemService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assets, _ := newAssetEnv()
	items := &ItemService{Store: assets.Store}

	asset, err := assets.Create(ctx, CreateAssetParams{
		Code: "PRN-001",
		Name: "Printer",
		Type: domain.AssetIT,
	}, "admin-1")
	require.NoError(t, err)

	created, err := assets.CreateItems(ctx, asset.ID, CreateItemsParams{Quantity: 2}, "admin-1")
	require.NoError(t, err)

	t.Run("list by asset", func(t *testing.T) {
		page, err := items.ListByAsset(ctx, asset.ID,
			store.BuildPageSpec("code", "asc", 1, 20, store.ItemSortFields))
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		require.Equal(t, "PRN-001-001", page.Items[0].Code)
	})

	t.Run("list under missing asset is not found", func(t *testing.T) {
		_, err := items.ListByAsset(ctx, "ghost",
			store.BuildPageSpec("", "", 1, 20, store.ItemSortFields))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("status update", func(t *testing.T) {
		faulty := domain.ItemFaulty
		updated, err := items.Update(ctx, created[0].ID, UpdateItemParams{Status: &faulty}, "tech-1")
		require.NoError(t, err)
		require.Equal(t, domain.ItemFaulty, updated.Status)
		require.Equal(t, "tech-1", updated.UpdatedBy)
	})

	t.Run("retire is a status flip", func(t *testing.T) {
		retired, err := items.Retire(ctx, created[1].ID, "tech-1")
		require.NoError(t, err)
		require.Equal(t, domain.ItemRetired, retired.Status)
	})
}
