package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPageSpec(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		spec := BuildPageSpec("", "", 0, 0, AssetSortFields)
		require.Equal(t, 1, spec.Page)
		require.Equal(t, 20, spec.PageSize)
		require.Equal(t, "createdAt", spec.SortBy)
		require.True(t, spec.Desc)
		require.Equal(t, 0, spec.Skip())
	})

	t.Run("page clamps to at least one", func(t *testing.T) {
		t.Parallel()

		spec := BuildPageSpec("", "", -5, 20, AssetSortFields)
		require.Equal(t, 1, spec.Page)
	})

	t.Run("page size clamps to the cap", func(t *testing.T) {
		t.Parallel()

		spec := BuildPageSpec("", "", 1, 10000, AssetSortFields)
		require.Equal(t, 200, spec.PageSize)
	})

	t.Run("unknown sort field falls back to default", func(t *testing.T) {
		t.Parallel()

		spec := BuildPageSpec("unknownField", "asc", 1, 20, AssetSortFields)
		require.Equal(t, "createdAt", spec.SortBy)
	})

	t.Run("whitelisted sort field is honoured", func(t *testing.T) {
		t.Parallel()

		spec := BuildPageSpec("dueAt", "asc", 1, 20, TicketSortFields)
		require.Equal(t, "dueAt", spec.SortBy)
		require.False(t, spec.Desc)
	})

	t.Run("order defaults to descending", func(t *testing.T) {
		t.Parallel()

		require.True(t, BuildPageSpec("", "", 1, 20, AssetSortFields).Desc)
		require.True(t, BuildPageSpec("", "desc", 1, 20, AssetSortFields).Desc)
		require.True(t, BuildPageSpec("", "DESC", 1, 20, AssetSortFields).Desc)
		require.False(t, BuildPageSpec("", "asc", 1, 20, AssetSortFields).Desc)
	})

	t.Run("skip advances by page size", func(t *testing.T) {
		t.Parallel()

		spec := BuildPageSpec("", "", 3, 50, AssetSortFields)
		require.Equal(t, 100, spec.Skip())
	})
}
