package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/idx"
)

type DepartmentService struct {
	Store store.Store
}

type UpdateDepartmentParams struct {
	Name *string
}

func (s *DepartmentService) Create(ctx context.Context, code, name, actor string) (domain.Department, error) {
	if code == "" || name == "" {
		return domain.Department{}, errors.Join(ErrValidation, errors.New("code and name are required"))
	}

	if _, err := s.Store.Departments().GetByCode(ctx, code); err == nil {
		return domain.Department{}, store.ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Department{}, err
	}

	now := time.Now().UTC()
	d := domain.Department{
		ID:        idx.New().String(),
		Code:      code,
		Name:      name,
		Active:    true,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Departments().Create(ctx, d); err != nil {
		return domain.Department{}, err
	}
	return d, nil
}

func (s *DepartmentService) Get(ctx context.Context, id string) (domain.Department, error) {
	return s.Store.Departments().GetByID(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context, activeOnly bool, spec store.PageSpec) (domain.Page[domain.Department], error) {
	return s.Store.Departments().List(ctx, activeOnly, spec)
}

func (s *DepartmentService) Update(ctx context.Context, id string, p UpdateDepartmentParams, actor string) (domain.Department, error) {
	d, err := s.Store.Departments().GetByID(ctx, id)
	if err != nil {
		return domain.Department{}, err
	}

	if p.Name != nil {
		d.Name = *p.Name
	}

	d.UpdatedBy = actor
	d.UpdatedAt = time.Now().UTC()

	if err := s.Store.Departments().Update(ctx, d); err != nil {
		return domain.Department{}, err
	}
	return d, nil
}

// Retire soft-deletes a department.
func (s *DepartmentService) Retire(ctx context.Context, id, actor string) (domain.Department, error) {
	d, err := s.Store.Departments().GetByID(ctx, id)
	if err != nil {
		return domain.Department{}, err
	}

	d.Active = false
	d.UpdatedBy = actor
	d.UpdatedAt = time.Now().UTC()

	if err := s.Store.Departments().Update(ctx, d); err != nil {
		return domain.Department{}, err
	}
	return d, nil
}
