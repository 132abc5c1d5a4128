package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type StatusReader interface {
	FindByUserID(ctx context.Context, userID uint) ([]domain.UserItemStatus, error)
}

type UserService struct {
	repo     UserRepository
	statuses StatusReader
}

func NewUserService(repo UserRepository, statuses StatusReader) *UserService {
	return &UserService{
		repo:     repo,
		statuses: statuses,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// GetStatuses lists the user's recorded item statuses ordered by menu id.
// Items never scanned for this user are absent.
func (s *UserService) GetStatuses(ctx context.Context, userID uint) ([]domain.UserItemStatus, error) {
	statuses, err := s.statuses.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.statuses.FindByUserID -> %w", err)
	}

	return statuses, nil
}
