package services

import (
	"context"
	"errors"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
)

type TableInput struct {
	Number   int   `json:"number"`
	IsActive *bool `json:"isActive"`
}

type TableService interface {
	List(ctx context.Context, principal *auth.Principal, activeOnly bool) ([]models.Table, error)
	Create(ctx context.Context, principal *auth.Principal, input TableInput) (*models.Table, error)
	Update(ctx context.Context, principal *auth.Principal, id uint, input TableInput) (*models.Table, error)
	Delete(ctx context.Context, principal *auth.Principal, id uint) error
}

type tableService struct {
	repos  *repository.Repositories
	stores StoreService
}

func NewTableService(repos *repository.Repositories, stores StoreService) TableService {
	return &tableService{repos: repos, stores: stores}
}

func (s *tableService) List(ctx context.Context, principal *auth.Principal, activeOnly bool) ([]models.Table, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	tables, err := s.repos.Tables.ListByStore(ctx, store.ID, activeOnly)
	if err != nil {
		return nil, internalErr("failed to load tables", err)
	}
	if tables == nil {
		tables = []models.Table{}
	}
	return tables, nil
}

func (s *tableService) Create(ctx context.Context, principal *auth.Principal, input TableInput) (*models.Table, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	if input.Number < 1 {
		return nil, validationErr("table number must be at least 1")
	}

	table := &models.Table{StoreID: store.ID, Number: input.Number, IsActive: true}
	if input.IsActive != nil {
		table.IsActive = *input.IsActive
	}
	if err := s.repos.Tables.Create(ctx, table); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictErr("table %d already exists", input.Number)
		}
		return nil, internalErr("failed to create table", err)
	}
	return table, nil
}

func (s *tableService) Update(ctx context.Context, principal *auth.Principal, id uint, input TableInput) (*models.Table, error) {
	table, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if input.Number != 0 {
		if input.Number < 1 {
			return nil, validationErr("table number must be at least 1")
		}
		table.Number = input.Number
	}
	if input.IsActive != nil {
		table.IsActive = *input.IsActive
	}
	if err := s.repos.Tables.Update(ctx, table); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictErr("table %d already exists", table.Number)
		}
		return nil, internalErr("failed to update table", err)
	}
	return table, nil
}

func (s *tableService) Delete(ctx context.Context, principal *auth.Principal, id uint) error {
	table, err := s.owned(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.repos.Tables.Delete(ctx, table.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundErr("table %d not found", id)
		}
		return internalErr("failed to delete table", err)
	}
	return nil
}

func (s *tableService) owned(ctx context.Context, principal *auth.Principal, id uint) (*models.Table, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	table, err := s.repos.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr("table %d not found", id)
		}
		return nil, internalErr("failed to load table", err)
	}
	if table.StoreID != store.ID {
		return nil, notFoundErr("table %d not found", id)
	}
	return table, nil
}
