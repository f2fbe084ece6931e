package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict means a conditional update found the document changed
	// since it was read (e.g. the image list length precondition failed).
	ErrConflict = errors.New("store: conflicting concurrent update")
)

// Store is the root data access interface. Concrete drivers (mongo,
// memory) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	Departments() Departments
	Assets() Assets
	Items() Items
	Tickets() Tickets

	// EnsureIndexes creates the unique indexes the natural keys rely on.
	EnsureIndexes(ctx context.Context) error

	// Close releases any underlying resources.
	Close(ctx context.Context) error

	// Ping verifies the store connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new user (id is provided by app via ULID).
	Create(ctx context.Context, u domain.User) error

	// Update replaces the mutable fields of an existing user.
	Update(ctx context.Context, u domain.User) error

	// Delete removes the user record. Users are the one resource the
	// system hard-deletes.
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, f domain.UserFilter, spec PageSpec) (domain.Page[domain.User], error)

	// IsEmpty reports whether no users exist yet (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Departments interface {
	GetByID(ctx context.Context, id string) (domain.Department, error)
	GetByCode(ctx context.Context, code string) (domain.Department, error)
	Create(ctx context.Context, d domain.Department) error
	Update(ctx context.Context, d domain.Department) error
	List(ctx context.Context, activeOnly bool, spec PageSpec) (domain.Page[domain.Department], error)
}

type Assets interface {
	GetByID(ctx context.Context, id string) (domain.Asset, error)
	GetByCode(ctx context.Context, code string) (domain.Asset, error)
	Create(ctx context.Context, a domain.Asset) error
	Update(ctx context.Context, a domain.Asset) error
	List(ctx context.Context, f domain.AssetFilter, spec PageSpec) (domain.Page[domain.Asset], error)

	// ReplaceImages swaps the image list under an optimistic length
	// precondition: the update only applies while the stored list still
	// has prevLen entries. A stale precondition returns ErrConflict.
	ReplaceImages(ctx context.Context, id string, prevLen int, images []string, updatedBy string) (domain.Asset, error)
}

type Items interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Create(ctx context.Context, i domain.Item) error
	CreateMany(ctx context.Context, items []domain.Item) error
	Update(ctx context.Context, i domain.Item) error
	ListByAsset(ctx context.Context, assetID string, spec PageSpec) (domain.Page[domain.Item], error)

	// CountByAsset feeds item code generation: new codes continue the
	// per-asset sequence.
	CountByAsset(ctx context.Context, assetID string) (int64, error)
}

type Tickets interface {
	GetByID(ctx context.Context, id string) (domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (domain.Ticket, error)
	Create(ctx context.Context, t domain.Ticket) error
	Update(ctx context.Context, t domain.Ticket) error
	List(ctx context.Context, f domain.TicketFilter, spec PageSpec) (domain.Page[domain.Ticket], error)

	// ReplaceImages behaves exactly like Assets.ReplaceImages.
	ReplaceImages(ctx context.Context, id string, prevLen int, images []string, updatedBy string) (domain.Ticket, error)
}
