package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store/drivers/memory"
	"github.com/aussiebroadwan/opsdesk/pkg/blobx"
)

type ticketEnv struct {
	tickets *TicketService
	blobs   *blobx.MemoryStore
	itemID  string
}

func newTicketEnv(t *testing.T) ticketEnv {
	t.Helper()
	ctx := context.Background()

	st := memory.NewStore()
	blobs := blobx.NewMemoryStore()
	assets := &AssetService{Store: st, Blobs: blobs}

	asset, err := assets.Create(ctx, CreateAssetParams{
		Code: "CAM-001",
		Name: "Lobby camera",
		Type: domain.AssetDevice,
	}, "admin-1")
	require.NoError(t, err)

	items, err := assets.CreateItems(ctx, asset.ID, CreateItemsParams{Quantity: 1}, "admin-1")
	require.NoError(t, err)

	return ticketEnv{
		tickets: &TicketService{Store: st, Blobs: blobs},
		blobs:   blobs,
		itemID:  items[0].ID,
	}
}

func TestTicketCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTicketEnv(t)

	t.Run("defaults apply", func(t *testing.T) {
		created, err := env.tickets.Create(ctx, CreateTicketParams{
			Code:         "TCK-001",
			Title:        "Lens cracked",
			Type:         domain.TicketRepair,
			AssetItemIDs: []string{env.itemID},
		}, "user-1")
		require.NoError(t, err)
		require.Equal(t, domain.PriorityMedium, created.Priority)
		require.Equal(t, domain.StatusNew, created.Status)
		require.Nil(t, created.ClosedAt)
	})

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		_, err := env.tickets.Create(ctx, CreateTicketParams{
			Code:         "TCK-001",
			Title:        "Again",
			Type:         domain.TicketRepair,
			AssetItemIDs: []string{env.itemID},
		}, "user-1")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("empty item list is a validation error", func(t *testing.T) {
		_, err := env.tickets.Create(ctx, CreateTicketParams{
			Code:  "TCK-002",
			Title: "No items",
			Type:  domain.TicketRepair,
		}, "user-1")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown item reference is not found", func(t *testing.T) {
		_, err := env.tickets.Create(ctx, CreateTicketParams{
			Code:         "TCK-003",
			Title:        "Ghost item",
			Type:         domain.TicketRepair,
			AssetItemIDs: []string{"ghost"},
		}, "user-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestTicketStatusTransitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTicketEnv(t)

	created, err := env.tickets.Create(ctx, CreateTicketParams{
		Code:         "TCK-010",
		Title:        "Routine check",
		Type:         domain.TicketMaintenance,
		AssetItemIDs: []string{env.itemID},
	}, "user-1")
	require.NoError(t, err)

	setStatus := func(t *testing.T, status domain.TicketStatus) domain.Ticket {
		t.Helper()
		updated, err := env.tickets.Update(ctx, created.ID, UpdateTicketParams{Status: &status}, "user-2")
		require.NoError(t, err)
		return updated
	}

	t.Run("closing stamps closedAt", func(t *testing.T) {
		updated := setStatus(t, domain.StatusDone)
		require.NotNil(t, updated.ClosedAt)
	})

	t.Run("reopening clears closedAt", func(t *testing.T) {
		updated := setStatus(t, domain.StatusDoing)
		require.Nil(t, updated.ClosedAt)
	})

	t.Run("cancelling stamps closedAt too", func(t *testing.T) {
		updated := setStatus(t, domain.StatusCancelled)
		require.NotNil(t, updated.ClosedAt)
	})
}

func TestTicketAttachments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTicketEnv(t)

	created, err := env.tickets.Create(ctx, CreateTicketParams{
		Code:         "TCK-020",
		Title:        "Photos attached",
		Type:         domain.TicketIncident,
		AssetItemIDs: []string{env.itemID},
	}, "user-1")
	require.NoError(t, err)

	files := []ImageFile{
		{Data: []byte("first"), ContentType: "image/jpeg"},
		{Data: []byte("second"), ContentType: "image/png"},
	}

	t.Run("add preserves upload order", func(t *testing.T) {
		updated, err := env.tickets.AddImages(ctx, created.ID, files, "user-1")
		require.NoError(t, err)
		require.Len(t, updated.ImageURLs, 2)
		require.Equal(t, "user-1", updated.UpdatedBy)
		for _, ref := range updated.ImageURLs {
			require.True(t, env.blobs.Has(ref))
		}
	})

	t.Run("remove splices exactly one entry", func(t *testing.T) {
		before, err := env.tickets.Get(ctx, created.ID)
		require.NoError(t, err)
		removed := before.ImageURLs[0]
		survivor := before.ImageURLs[1]

		updated, err := env.tickets.RemoveImage(ctx, created.ID, 0, "user-2")
		require.NoError(t, err)
		require.Equal(t, []string{survivor}, updated.ImageURLs)
		require.False(t, env.blobs.Has(removed))
		require.True(t, env.blobs.Has(survivor))
	})

	t.Run("index out of range leaves the document unchanged", func(t *testing.T) {
		_, err := env.tickets.RemoveImage(ctx, created.ID, 5, "user-2")
		require.ErrorIs(t, err, ErrInvalidIndex)

		doc, err := env.tickets.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, doc.ImageURLs, 1)
	})

	t.Run("failed blob delete leaves the document unchanged", func(t *testing.T) {
		env.blobs.FailDeletes = true
		defer func() { env.blobs.FailDeletes = false }()

		_, err := env.tickets.RemoveImage(ctx, created.ID, 0, "user-2")
		require.ErrorIs(t, err, blobx.ErrUnavailable)

		doc, err := env.tickets.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, doc.ImageURLs, 1)
	})

	t.Run("mid-batch upload failure attaches nothing", func(t *testing.T) {
		env.blobs.FailUploads = true
		defer func() { env.blobs.FailUploads = false }()

		_, err := env.tickets.AddImages(ctx, created.ID, files, "user-1")
		require.ErrorIs(t, err, blobx.ErrUnavailable)

		doc, err := env.tickets.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, doc.ImageURLs, 1)
	})

	t.Run("unknown ticket is not found", func(t *testing.T) {
		_, err := env.tickets.AddImages(ctx, "ghost", files, "user-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDepartmentService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	depts := &DepartmentService{Store: memory.NewStore()}

	created, err := depts.Create(ctx, "OPS", "Operations", "admin-1")
	require.NoError(t, err)
	require.True(t, created.Active)

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		_, err := depts.Create(ctx, "OPS", "Other", "admin-1")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("retire hides it from active listings", func(t *testing.T) {
		_, err := depts.Retire(ctx, created.ID, "admin-1")
		require.NoError(t, err)

		page, err := depts.List(ctx, true, store.BuildPageSpec("", "", 1, 20, store.DepartmentSortFields))
		require.NoError(t, err)
		require.Empty(t, page.Items)

		page, err = depts.List(ctx, false, store.BuildPageSpec("", "", 1, 20, store.DepartmentSortFields))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
	})
}
