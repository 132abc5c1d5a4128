package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
)

type ItemStatusDAO interface {
	Upsert(ctx context.Context, row dao.UserItemStatus) error
	FindByUserID(ctx context.Context, userID uint) ([]dao.StatusWithMenu, error)
}

type ItemStatusRepository struct {
	dao ItemStatusDAO
}

func NewItemStatusRepository(dao ItemStatusDAO) *ItemStatusRepository {
	return &ItemStatusRepository{
		dao: dao,
	}
}

// Set records status for the (user, menu) pair, creating the row on first use.
func (r *ItemStatusRepository) Set(ctx context.Context, userID, menuID uint, status domain.ItemStatus, at time.Time) error {
	err := r.dao.Upsert(ctx, dao.UserItemStatus{
		UserID:    userID,
		MenuID:    menuID,
		Status:    string(status),
		UpdatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return nil
}

func (r *ItemStatusRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.UserItemStatus, error) {
	rows, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	statuses := make([]domain.UserItemStatus, 0, len(rows))
	for _, row := range rows {
		statuses = append(statuses, domain.UserItemStatus{
			MenuID:    row.MenuID,
			MenuName:  row.MenuName,
			Status:    domain.ItemStatus(row.Status),
			UpdatedAt: row.UpdatedAt,
		})
	}

	return statuses, nil
}
