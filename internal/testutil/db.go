// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/canteen-qr-api/internal/db"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
)

// NewDB returns an in-memory SQLite database with the full schema. Every
// call gets its own database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	conn, err := db.OpenSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(conn))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return conn
}

// CreateUser stores a user with an already hashed placeholder password.
func CreateUser(t testing.TB, conn *gorm.DB, username, email string, staff bool) domain.User {
	t.Helper()

	user, err := repository.NewStores(conn).Users.Create(context.Background(), domain.User{
		PublicID:  uuid.New(),
		Username:  username,
		Email:     email,
		Password:  "x",
		FirstName: "Test",
		LastName:  username,
		IsStaff:   staff,
	})
	require.NoError(t, err)

	return user
}

func CreateMenu(t testing.TB, conn *gorm.DB, name string) domain.Menu {
	t.Helper()

	menu, err := repository.NewStores(conn).Menus.Create(context.Background(), domain.Menu{
		Name:      name,
		Available: true,
	})
	require.NoError(t, err)

	return menu
}

func AllowEmail(t testing.TB, conn *gorm.DB, email string) domain.AllowedEmail {
	t.Helper()

	entry, err := repository.NewStores(conn).Allowlist.Create(context.Background(), domain.AllowedEmail{
		Email: email,
	})
	require.NoError(t, err)

	return entry
}
