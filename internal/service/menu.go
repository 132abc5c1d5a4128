package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
)

var (
	ErrMenuNotFound   = repository.ErrMenuNotFound
	ErrMenuNameExists = repository.ErrMenuNameExists
)

type MenuRepository interface {
	Create(ctx context.Context, menu domain.Menu) (domain.Menu, error)
	FindAll(ctx context.Context) ([]domain.Menu, error)
	FindByID(ctx context.Context, id uint) (domain.Menu, error)
	Update(ctx context.Context, menu domain.Menu) (domain.Menu, error)
	Delete(ctx context.Context, id uint) error
}

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// ListMenus returns every menu item, newest first.
func (s *MenuService) ListMenus(ctx context.Context) ([]domain.Menu, error) {
	menus, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return menus, nil
}

func (s *MenuService) GetMenu(ctx context.Context, id uint) (domain.Menu, error) {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return menu, nil
}

func (s *MenuService) CreateMenu(ctx context.Context, menu domain.Menu) (domain.Menu, error) {
	created, err := s.repo.Create(ctx, menu)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// ReplaceMenu overwrites every editable field of the menu item.
func (s *MenuService) ReplaceMenu(ctx context.Context, id uint, menu domain.Menu) (domain.Menu, error) {
	menu.ID = id

	updated, err := s.repo.Update(ctx, menu)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// PatchMenu changes only the fields set in patch.
func (s *MenuService) PatchMenu(ctx context.Context, id uint, patch domain.MenuPatch) (domain.Menu, error) {
	menu, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if patch.Name != nil {
		menu.Name = *patch.Name
	}
	if patch.Description != nil {
		menu.Description = *patch.Description
	}
	if patch.Available != nil {
		menu.Available = *patch.Available
	}

	updated, err := s.repo.Update(ctx, menu)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteMenu removes the item together with every status recorded for it.
func (s *MenuService) DeleteMenu(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
