package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	t.Parallel()

	t.Run("total pages round up", func(t *testing.T) {
		t.Parallel()

		p := NewPage([]int{1, 2, 3}, 45, 1, 20)
		require.EqualValues(t, 3, p.TotalPage)
		require.EqualValues(t, 45, p.Total)
	})

	t.Run("empty result yields zero pages", func(t *testing.T) {
		t.Parallel()

		p := NewPage[int](nil, 0, 1, 20)
		require.EqualValues(t, 0, p.TotalPage)
		require.NotNil(t, p.Items)
		require.Empty(t, p.Items)
	})

	t.Run("exact multiple does not add a page", func(t *testing.T) {
		t.Parallel()

		p := NewPage([]int{1}, 40, 2, 20)
		require.EqualValues(t, 2, p.TotalPage)
	})
}

func TestEnumParsers(t *testing.T) {
	t.Parallel()

	_, err := ParseAssetType("Vehicle")
	require.ErrorIs(t, err, ErrInvalidEnum)

	typ, err := ParseAssetType("Device")
	require.NoError(t, err)
	require.Equal(t, AssetDevice, typ)

	_, err = ParseTicketStatus("Closed")
	require.ErrorIs(t, err, ErrInvalidEnum)

	_, err = ParseRole("superadmin")
	require.ErrorIs(t, err, ErrInvalidEnum)

	status, err := ParseUserStatus("blocked")
	require.NoError(t, err)
	require.Equal(t, UserBlocked, status)
}
