package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/blobx"
	"github.com/aussiebroadwan/opsdesk/pkg/idx"
)

const ticketImageFolder = "tickets"

type TicketService struct {
	Store store.Store
	Blobs blobx.Store
}

type CreateTicketParams struct {
	Code         string
	Title        string
	Description  string
	Type         domain.TicketType
	AssetItemIDs []string
	Priority     domain.TicketPriority // defaults to Medium
	Cause        string
	Note         string
	LocationID   string
	AssigneeID   string
	DueAt        *time.Time
	Images       []ImageFile
}

// UpdateTicketParams patches a ticket; nil fields are left unchanged.
type UpdateTicketParams struct {
	Title       *string
	Description *string
	Type        *domain.TicketType
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
	Cause       *string
	Note        *string
	LocationID  *string
	AssigneeID  *string
	DueAt       *time.Time
}

func (s *TicketService) Create(ctx context.Context, p CreateTicketParams, actor string) (domain.Ticket, error) {
	if p.Code == "" || p.Title == "" {
		return domain.Ticket{}, errors.Join(ErrValidation, errors.New("code and title are required"))
	}
	if len(p.AssetItemIDs) == 0 {
		return domain.Ticket{}, errors.Join(ErrValidation, errors.New("at least one asset item is required"))
	}

	if _, err := s.Store.Tickets().GetByCode(ctx, p.Code); err == nil {
		return domain.Ticket{}, store.ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Ticket{}, err
	}

	// Every referenced item must exist before the ticket is raised.
	for _, itemID := range p.AssetItemIDs {
		if _, err := s.Store.Items().GetByID(ctx, itemID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Ticket{}, fmt.Errorf("asset item %s: %w", itemID, err)
			}
			return domain.Ticket{}, err
		}
	}

	refs := make([]string, 0, len(p.Images))
	for i, f := range p.Images {
		ref, err := s.Blobs.Upload(ctx, f.Data, f.ContentType, ticketImageFolder)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("upload image %d of %d: %w", i+1, len(p.Images), err)
		}
		refs = append(refs, ref)
	}

	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	t := domain.Ticket{
		ID:           idx.New().String(),
		Code:         p.Code,
		Title:        p.Title,
		Description:  p.Description,
		Type:         p.Type,
		AssetItemIDs: p.AssetItemIDs,
		Priority:     p.Priority,
		Status:       domain.StatusNew,
		Cause:        p.Cause,
		Note:         p.Note,
		LocationID:   p.LocationID,
		AssigneeID:   p.AssigneeID,
		ImageURLs:    refs,
		DueAt:        p.DueAt,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Tickets().Create(ctx, t); err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (domain.Ticket, error) {
	return s.Store.Tickets().GetByID(ctx, id)
}

func (s *TicketService) List(ctx context.Context, f domain.TicketFilter, spec store.PageSpec) (domain.Page[domain.Ticket], error) {
	return s.Store.Tickets().List(ctx, f, spec)
}

func (s *TicketService) Update(ctx context.Context, id string, p UpdateTicketParams, actor string) (domain.Ticket, error) {
	t, err := s.Store.Tickets().GetByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
		// Closing transitions stamp closedAt once; reopening clears it.
		switch t.Status {
		case domain.StatusDone, domain.StatusCancelled:
			if t.ClosedAt == nil {
				now := time.Now().UTC()
				t.ClosedAt = &now
			}
		default:
			t.ClosedAt = nil
		}
	}
	if p.Cause != nil {
		t.Cause = *p.Cause
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.LocationID != nil {
		t.LocationID = *p.LocationID
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.DueAt != nil {
		t.DueAt = p.DueAt
	}

	t.UpdatedBy = actor
	t.UpdatedAt = time.Now().UTC()

	if err := s.Store.Tickets().Update(ctx, t); err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

func (s *TicketService) AddImages(ctx context.Context, id string, files []ImageFile, actor string) (domain.Ticket, error) {
	return addImages(ctx, s.Blobs, ticketImageFolder, id, files, actor,
		s.Store.Tickets().GetByID,
		func(t domain.Ticket) []string { return t.ImageURLs },
		s.Store.Tickets().ReplaceImages,
	)
}

func (s *TicketService) RemoveImage(ctx context.Context, id string, index int, actor string) (domain.Ticket, error) {
	return removeImage(ctx, s.Blobs, id, index, actor,
		s.Store.Tickets().GetByID,
		func(t domain.Ticket) []string { return t.ImageURLs },
		s.Store.Tickets().ReplaceImages,
	)
}
