package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
)

// Stores bundles the repositories that share one database handle, usually a
// transaction.
type Stores struct {
	Users     *UserRepository
	Allowlist *AllowlistRepository
	Menus     *MenuRepository
	Statuses  *ItemStatusRepository
	QRTokens  *QRTokenRepository
}

func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:     NewUserRepository(dao.NewUserDAO(db)),
		Allowlist: NewAllowlistRepository(dao.NewAllowedEmailDAO(db)),
		Menus:     NewMenuRepository(dao.NewMenuDAO(db)),
		Statuses:  NewItemStatusRepository(dao.NewItemStatusDAO(db)),
		QRTokens:  NewQRTokenRepository(dao.NewQRTokenDAO(db)),
	}
}

type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db: db,
	}
}

// Do runs fn against stores bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (u *UnitOfWork) Do(ctx context.Context, fn func(s Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
