package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
)

var (
	ErrMenuNotFound   = dao.ErrMenuNotFound
	ErrMenuNameExists = dao.ErrMenuNameExists
)

type MenuDAO interface {
	Insert(ctx context.Context, menu dao.Menu) (dao.Menu, error)
	FindAll(ctx context.Context) ([]dao.Menu, error)
	FindByID(ctx context.Context, id uint) (dao.Menu, error)
	FindByName(ctx context.Context, name string) (dao.Menu, error)
	Update(ctx context.Context, menu dao.Menu) (dao.Menu, error)
	Delete(ctx context.Context, id uint) error
}

type MenuRepository struct {
	dao MenuDAO
}

func NewMenuRepository(dao MenuDAO) *MenuRepository {
	return &MenuRepository{
		dao: dao,
	}
}

func (r *MenuRepository) Create(ctx context.Context, menu domain.Menu) (domain.Menu, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(menu))
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MenuRepository) FindAll(ctx context.Context) ([]domain.Menu, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	menus := make([]domain.Menu, 0, len(found))
	for _, m := range found {
		menus = append(menus, r.daoToDomain(m))
	}

	return menus, nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id uint) (domain.Menu, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *MenuRepository) FindByName(ctx context.Context, name string) (domain.Menu, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *MenuRepository) Update(ctx context.Context, menu domain.Menu) (domain.Menu, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(menu))
	if err != nil {
		return domain.Menu{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *MenuRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *MenuRepository) domainToDao(m domain.Menu) dao.Menu {
	return dao.Menu{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *MenuRepository) daoToDomain(m dao.Menu) domain.Menu {
	return domain.Menu{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
