// Package memory is an in-process store driver with the same
// filter/sort/pagination semantics as the mongo driver. It backs the
// service tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]domain.User
	departments map[string]domain.Department
	assets      map[string]domain.Asset
	items       map[string]domain.Item
	tickets     map[string]domain.Ticket
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		departments: make(map[string]domain.Department),
		assets:      make(map[string]domain.Asset),
		items:       make(map[string]domain.Item),
		tickets:     make(map[string]domain.Ticket),
	}
}

func (s *Store) Close(ctx context.Context) error { return nil }
func (s *Store) Ping(ctx context.Context) error  { return nil }

// EnsureIndexes is a no-op; uniqueness is checked inline on insert.
func (s *Store) EnsureIndexes(ctx context.Context) error { return nil }

func (s *Store) Users() store.Users             { return &usersRepo{s: s} }
func (s *Store) Departments() store.Departments { return &deptsRepo{s: s} }
func (s *Store) Assets() store.Assets           { return &assetsRepo{s: s} }
func (s *Store) Items() store.Items             { return &itemsRepo{s: s} }
func (s *Store) Tickets() store.Tickets         { return &ticketsRepo{s: s} }

// matchText mirrors the mongo driver's case-insensitive partial match.
// An empty needle imposes no constraint.
func matchText(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// orderBy sorts stably so equal keys keep a deterministic order.
func orderBy[T any](items []T, desc bool, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// paginate slices a fully filtered, sorted result set into a page
// envelope. Count and find observe the same snapshot by construction.
func paginate[T any](items []T, spec store.PageSpec) domain.Page[T] {
	total := int64(len(items))

	start := min(spec.Skip(), len(items))
	end := min(start+spec.PageSize, len(items))

	page := make([]T, end-start)
	copy(page, items[start:end])

	return domain.NewPage(page, total, spec.Page, spec.PageSize)
}

// containsAll reports whether every want id appears in have.
func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
