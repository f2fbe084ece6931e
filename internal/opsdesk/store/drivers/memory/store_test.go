package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

func spec(sortBy, order string, page, pageSize int, whitelist []string) store.PageSpec {
	return store.BuildPageSpec(sortBy, order, page, pageSize, whitelist)
}

func seedAssets(t *testing.T, s *Store, n int) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := s.Assets().Create(ctx, domain.Asset{
			ID:        fmt.Sprintf("asset-%03d", i),
			Code:      fmt.Sprintf("CAM-%03d", i),
			Name:      fmt.Sprintf("Camera %d", i),
			Type:      domain.AssetDevice,
			Active:    i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
}

func TestAssetListPagination(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	seedAssets(t, s, 45)

	t.Run("totals stay consistent with items", func(t *testing.T) {
		page, err := s.Assets().List(ctx, domain.AssetFilter{}, spec("", "", 1, 20, store.AssetSortFields))
		require.NoError(t, err)
		require.Len(t, page.Items, 20)
		require.EqualValues(t, 45, page.Total)
		require.EqualValues(t, 3, page.TotalPage)
	})

	t.Run("last page is the remainder", func(t *testing.T) {
		page, err := s.Assets().List(ctx, domain.AssetFilter{}, spec("", "", 3, 20, store.AssetSortFields))
		require.NoError(t, err)
		require.Len(t, page.Items, 5)
	})

	t.Run("page past the end is empty but keeps totals", func(t *testing.T) {
		page, err := s.Assets().List(ctx, domain.AssetFilter{}, spec("", "", 9, 20, store.AssetSortFields))
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.EqualValues(t, 45, page.Total)
	})

	t.Run("default sort is newest first", func(t *testing.T) {
		page, err := s.Assets().List(ctx, domain.AssetFilter{}, spec("", "", 1, 5, store.AssetSortFields))
		require.NoError(t, err)
		require.Equal(t, "CAM-044", page.Items[0].Code)
	})

	t.Run("ascending code sort", func(t *testing.T) {
		page, err := s.Assets().List(ctx, domain.AssetFilter{}, spec("code", "asc", 1, 5, store.AssetSortFields))
		require.NoError(t, err)
		require.Equal(t, "CAM-000", page.Items[0].Code)
	})
}

func TestAssetListFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	seedAssets(t, s, 10)

	t.Run("partial match is case-insensitive", func(t *testing.T) {
		page, err := s.Assets().List(ctx, domain.AssetFilter{Name: "camera 3"}, spec("", "", 1, 20, store.AssetSortFields))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.Equal(t, "CAM-003", page.Items[0].Code)
	})

	t.Run("active flag filter", func(t *testing.T) {
		active := true
		page, err := s.Assets().List(ctx, domain.AssetFilter{Active: &active}, spec("", "", 1, 20, store.AssetSortFields))
		require.NoError(t, err)
		require.EqualValues(t, 5, page.Total)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		err := s.Assets().Create(ctx, domain.Asset{ID: "dup", Code: "CAM-003"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestTicketListFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()

	due := func(day int) *time.Time {
		d := time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
		return &d
	}

	tickets := []domain.Ticket{
		{ID: "t1", Code: "TCK-001", Title: "Replace lens", Type: domain.TicketRepair, Priority: domain.PriorityHigh, Status: domain.StatusNew, AssetItemIDs: []string{"i1", "i2"}, DueAt: due(5)},
		{ID: "t2", Code: "TCK-002", Title: "Clean sensor", Type: domain.TicketMaintenance, Priority: domain.PriorityMedium, Status: domain.StatusDoing, AssetItemIDs: []string{"i2"}, DueAt: due(15)},
		{ID: "t3", Code: "TCK-003", Title: "Broken mount", Type: domain.TicketIncident, Priority: domain.PriorityUrgent, Status: domain.StatusNew, AssetItemIDs: []string{"i3"}},
	}
	for _, tk := range tickets {
		require.NoError(t, s.Tickets().Create(ctx, tk))
	}

	list := func(t *testing.T, f domain.TicketFilter) domain.Page[domain.Ticket] {
		t.Helper()
		page, err := s.Tickets().List(ctx, f, spec("", "", 1, 20, store.TicketSortFields))
		require.NoError(t, err)
		return page
	}

	t.Run("all-of item ids", func(t *testing.T) {
		page := list(t, domain.TicketFilter{AssetItemIDs: []string{"i1", "i2"}})
		require.Len(t, page.Items, 1)
		require.Equal(t, "TCK-001", page.Items[0].Code)

		page = list(t, domain.TicketFilter{AssetItemIDs: []string{"i2"}})
		require.Len(t, page.Items, 2)
	})

	t.Run("due range lower bound only", func(t *testing.T) {
		page := list(t, domain.TicketFilter{StartDueAt: due(10)})
		require.Len(t, page.Items, 1)
		require.Equal(t, "TCK-002", page.Items[0].Code)
	})

	t.Run("due range both bounds inclusive", func(t *testing.T) {
		page := list(t, domain.TicketFilter{StartDueAt: due(5), EndDueAt: due(15)})
		require.Len(t, page.Items, 2)
	})

	t.Run("undated tickets fall outside bounded queries", func(t *testing.T) {
		page := list(t, domain.TicketFilter{EndDueAt: due(28)})
		require.Len(t, page.Items, 2)
	})

	t.Run("status and priority exact match", func(t *testing.T) {
		status := domain.StatusNew
		priority := domain.PriorityUrgent
		page := list(t, domain.TicketFilter{Status: &status, Priority: &priority})
		require.Len(t, page.Items, 1)
		require.Equal(t, "TCK-003", page.Items[0].Code)
	})
}

func TestReplaceImagesPrecondition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Tickets().Create(ctx, domain.Ticket{
		ID:        "t1",
		Code:      "TCK-010",
		ImageURLs: []string{"a", "b", "c"},
	}))

	t.Run("matching length applies the swap", func(t *testing.T) {
		updated, err := s.Tickets().ReplaceImages(ctx, "t1", 3, []string{"a", "c"}, "actor-1")
		require.NoError(t, err)
		require.Equal(t, []string{"a", "c"}, updated.ImageURLs)
		require.Equal(t, "actor-1", updated.UpdatedBy)
	})

	t.Run("stale length is a conflict", func(t *testing.T) {
		_, err := s.Tickets().ReplaceImages(ctx, "t1", 3, []string{"a"}, "actor-1")
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := s.Tickets().ReplaceImages(ctx, "ghost", 0, nil, "actor-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
