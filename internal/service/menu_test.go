package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
	"github.com/vietanh2810/canteen-qr-api/internal/testutil"
)

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestMenuService_CRUD(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewDB(t)
	svc := NewMenuService(repository.NewStores(conn).Menus)

	soup, err := svc.CreateMenu(ctx, domain.Menu{Name: "Soup", Description: "Tomato", Available: true})
	require.NoError(t, err)
	_, err = svc.CreateMenu(ctx, domain.Menu{Name: "Bread", Available: true})
	require.NoError(t, err)

	_, err = svc.CreateMenu(ctx, domain.Menu{Name: "Soup", Available: true})
	assert.ErrorIs(t, err, ErrMenuNameExists)

	menus, err := svc.ListMenus(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, "Bread", menus[0].Name)

	replaced, err := svc.ReplaceMenu(ctx, soup.ID, domain.Menu{Name: "Soup of the day", Available: false})
	require.NoError(t, err)
	assert.Equal(t, "Soup of the day", replaced.Name)
	assert.Empty(t, replaced.Description)
	assert.False(t, replaced.Available)

	available := true
	patched, err := svc.PatchMenu(ctx, soup.ID, domain.MenuPatch{Available: &available})
	require.NoError(t, err)
	assert.Equal(t, "Soup of the day", patched.Name)
	assert.True(t, patched.Available)

	name := "Bread"
	_, err = svc.PatchMenu(ctx, soup.ID, domain.MenuPatch{Name: &name})
	assert.ErrorIs(t, err, ErrMenuNameExists)

	got, err := svc.GetMenu(ctx, soup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup of the day", got.Name)

	_, err = svc.GetMenu(ctx, 999)
	assert.ErrorIs(t, err, ErrMenuNotFound)
	_, err = svc.ReplaceMenu(ctx, 999, domain.Menu{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestMenuService_DeleteRemovesStatuses(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewDB(t)
	stores := repository.NewStores(conn)
	svc := NewMenuService(stores.Menus)

	user := testutil.CreateUser(t, conn, "alice", "alice@campus.edu", false)
	soup := testutil.CreateMenu(t, conn, "Soup")
	require.NoError(t, stores.Statuses.Set(ctx, user.ID, soup.ID, domain.ItemStatusTaken, issuedAt))

	require.NoError(t, svc.DeleteMenu(ctx, soup.ID))

	statuses, err := stores.Statuses.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, statuses)

	assert.ErrorIs(t, svc.DeleteMenu(ctx, soup.ID), ErrMenuNotFound)
}
