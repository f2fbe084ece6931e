package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

type ticketsRepo struct {
	s *Store
}

func (r *ticketsRepo) GetByID(ctx context.Context, id string) (domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return domain.Ticket{}, store.ErrNotFound
	}
	return t, nil
}

func (r *ticketsRepo) GetByCode(ctx context.Context, code string) (domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tickets {
		if t.Code == code {
			return t, nil
		}
	}
	return domain.Ticket{}, store.ErrNotFound
}

func (r *ticketsRepo) Create(ctx context.Context, t domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.tickets {
		if existing.Code == t.Code {
			return store.ErrAlreadyExists
		}
	}
	r.s.tickets[t.ID] = t
	return nil
}

func (r *ticketsRepo) Update(ctx context.Context, t domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[t.ID]; !ok {
		return store.ErrNotFound
	}
	r.s.tickets[t.ID] = t
	return nil
}

func (r *ticketsRepo) List(ctx context.Context, f domain.TicketFilter, spec store.PageSpec) (domain.Page[domain.Ticket], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Ticket
	for _, t := range r.s.tickets {
		if !matchText(t.Code, f.Code) || !matchText(t.Title, f.Title) {
			continue
		}
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if len(f.AssetItemIDs) > 0 && !containsAll(t.AssetItemIDs, f.AssetItemIDs) {
			continue
		}
		if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
			continue
		}
		if f.LocationID != "" && t.LocationID != f.LocationID {
			continue
		}
		if f.CreatedBy != "" && t.CreatedBy != f.CreatedBy {
			continue
		}
		if !matchDueRange(t.DueAt, f.StartDueAt, f.EndDueAt) {
			continue
		}
		matched = append(matched, t)
	}

	orderBy(matched, spec.Desc, func(a, b domain.Ticket) bool {
		switch spec.SortBy {
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "dueAt":
			return beforePtr(a.DueAt, b.DueAt)
		case "priority":
			return a.Priority < b.Priority
		case "status":
			return a.Status < b.Status
		case "code":
			return a.Code < b.Code
		case "title":
			return a.Title < b.Title
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return paginate(matched, spec), nil
}

func (r *ticketsRepo) ReplaceImages(ctx context.Context, id string, prevLen int, images []string, updatedBy string) (domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return domain.Ticket{}, store.ErrNotFound
	}
	if len(t.ImageURLs) != prevLen {
		return domain.Ticket{}, store.ErrConflict
	}

	t.ImageURLs = append([]string(nil), images...)
	t.UpdatedBy = updatedBy
	t.UpdatedAt = time.Now().UTC()
	r.s.tickets[id] = t
	return t, nil
}

// matchDueRange applies the inclusive dueAt bounds. A ticket without a
// due date never matches a bounded query.
func matchDueRange(due, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	if due == nil {
		return false
	}
	if start != nil && due.Before(*start) {
		return false
	}
	if end != nil && due.After(*end) {
		return false
	}
	return true
}

// beforePtr orders nil due dates first so sorting stays total.
func beforePtr(a, b *time.Time) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}
