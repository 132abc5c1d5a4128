package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
)

var (
	ErrQRTokenNotFound = dao.ErrQRTokenNotFound
	ErrQRTokenExists   = dao.ErrQRTokenExists
)

type QRTokenDAO interface {
	Insert(ctx context.Context, token dao.QRToken) (dao.QRToken, error)
	FindByToken(ctx context.Context, token string) (dao.QRToken, error)
}

type QRTokenRepository struct {
	dao   QRTokenDAO
	users *UserRepository
}

func NewQRTokenRepository(dao QRTokenDAO) *QRTokenRepository {
	return &QRTokenRepository{
		dao:   dao,
		users: &UserRepository{},
	}
}

func (r *QRTokenRepository) Create(ctx context.Context, token domain.QRToken) (domain.QRToken, error) {
	created, err := r.dao.Insert(ctx, dao.QRToken{
		UserID:    token.UserID,
		Token:     token.Token,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return domain.QRToken{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	result := r.daoToDomain(created)
	result.User = token.User

	return result, nil
}

func (r *QRTokenRepository) FindByToken(ctx context.Context, token string) (domain.QRToken, error) {
	found, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return domain.QRToken{}, fmt.Errorf("r.dao.FindByToken -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *QRTokenRepository) daoToDomain(t dao.QRToken) domain.QRToken {
	return domain.QRToken{
		ID:        t.ID,
		UserID:    t.UserID,
		User:      r.users.daoToDomain(t.User),
		Token:     t.Token,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}
