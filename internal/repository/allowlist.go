package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
)

var (
	ErrAllowedEmailExists   = dao.ErrAllowedEmailExists
	ErrAllowedEmailNotFound = dao.ErrAllowedEmailNotFound
)

type AllowedEmailDAO interface {
	Insert(ctx context.Context, entry dao.AllowedEmail) (dao.AllowedEmail, error)
	Exists(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]dao.AllowedEmail, error)
	Delete(ctx context.Context, id uint) error
}

type AllowlistRepository struct {
	dao AllowedEmailDAO
}

func NewAllowlistRepository(dao AllowedEmailDAO) *AllowlistRepository {
	return &AllowlistRepository{
		dao: dao,
	}
}

// Create stores the address lower-cased so lookups and the unique
// constraint agree.
func (r *AllowlistRepository) Create(ctx context.Context, entry domain.AllowedEmail) (domain.AllowedEmail, error) {
	created, err := r.dao.Insert(ctx, dao.AllowedEmail{
		Email: strings.ToLower(strings.TrimSpace(entry.Email)),
		Note:  entry.Note,
	})
	if err != nil {
		return domain.AllowedEmail{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AllowlistRepository) IsAllowed(ctx context.Context, email string) (bool, error) {
	ok, err := r.dao.Exists(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, fmt.Errorf("r.dao.Exists -> %w", err)
	}

	return ok, nil
}

func (r *AllowlistRepository) FindAll(ctx context.Context) ([]domain.AllowedEmail, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	entries := make([]domain.AllowedEmail, 0, len(found))
	for _, e := range found {
		entries = append(entries, r.daoToDomain(e))
	}

	return entries, nil
}

func (r *AllowlistRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *AllowlistRepository) daoToDomain(e dao.AllowedEmail) domain.AllowedEmail {
	return domain.AllowedEmail{
		ID:    e.ID,
		Email: e.Email,
		Note:  e.Note,
	}
}
