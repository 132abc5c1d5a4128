package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
)

var (
	ErrAllowedEmailExists   = repository.ErrAllowedEmailExists
	ErrAllowedEmailNotFound = repository.ErrAllowedEmailNotFound
)

type AllowlistRepository interface {
	Create(ctx context.Context, entry domain.AllowedEmail) (domain.AllowedEmail, error)
	FindAll(ctx context.Context) ([]domain.AllowedEmail, error)
	Delete(ctx context.Context, id uint) error
}

type AllowlistService struct {
	repo AllowlistRepository
}

func NewAllowlistService(repo AllowlistRepository) *AllowlistService {
	return &AllowlistService{
		repo: repo,
	}
}

func (s *AllowlistService) ListEntries(ctx context.Context) ([]domain.AllowedEmail, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return entries, nil
}

func (s *AllowlistService) AddEntry(ctx context.Context, entry domain.AllowedEmail) (domain.AllowedEmail, error) {
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return domain.AllowedEmail{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// RemoveEntry stops future registrations for the address. Existing accounts
// are kept.
func (s *AllowlistService) RemoveEntry(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
