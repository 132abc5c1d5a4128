package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/canteen-qr-api/internal/config"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
	"github.com/vietanh2810/canteen-qr-api/internal/testutil"
)

type scanFixture struct {
	conn    *gorm.DB
	clock   *clock
	qr      *QRService
	scan    *ScanService
	user    domain.User
	payload string
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	conn := testutil.NewDB(t)
	c := &clock{now: issuedAt}

	qr := NewQRService(repository.NewStores(conn).QRTokens, &config.QRConfig{})
	qr.now = c.Now
	scan := NewScanService(repository.NewUnitOfWork(conn))
	scan.now = c.Now

	user := testutil.CreateUser(t, conn, "alice", "alice@campus.edu", false)
	token, err := qr.Issue(context.Background(), user)
	require.NoError(t, err)

	return &scanFixture{
		conn:    conn,
		clock:   c,
		qr:      qr,
		scan:    scan,
		user:    user,
		payload: token.Payload(),
	}
}

func (f *scanFixture) countRows(t *testing.T, menuID uint) int64 {
	t.Helper()

	count, err := dao.NewItemStatusDAO(f.conn).CountByUserAndMenu(context.Background(), f.user.ID, menuID)
	require.NoError(t, err)

	return count
}

func TestScanService_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)
	soup := testutil.CreateMenu(t, f.conn, "Soup")

	view, err := f.scan.Resolve(ctx, f.payload)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, view.User.ID)
	assert.Empty(t, view.Statuses)
	assert.True(t, view.QRExpiresAt.Equal(issuedAt.Add(2*time.Minute)))

	_, err = f.scan.Apply(ctx, f.payload, domain.MenuRefFromID(soup.ID), domain.ItemStatusTaken)
	require.NoError(t, err)

	view, err = f.scan.Resolve(ctx, "  "+f.payload[:3]+" "+f.payload[3:]+" ")
	assert.ErrorIs(t, err, ErrQRBadFormat)

	view, err = f.scan.Resolve(ctx, f.payload[:3]+" "+f.payload[3:]+"\n")
	require.NoError(t, err)
	require.Len(t, view.Statuses, 1)
	assert.Equal(t, "Soup", view.Statuses[0].MenuName)
	assert.Equal(t, domain.ItemStatusTaken, view.Statuses[0].Status)
}

func TestScanService_Resolve_Errors(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)

	_, err := f.scan.Resolve(ctx, "abc123")
	assert.ErrorIs(t, err, ErrQRBadFormat)

	_, err = f.scan.Resolve(ctx, "QR:unknown")
	assert.ErrorIs(t, err, ErrQRTokenNotFound)

	f.clock.now = issuedAt.Add(121 * time.Second)
	_, err = f.scan.Resolve(ctx, f.payload)
	assert.ErrorIs(t, err, ErrQRTokenExpired)
}

func TestScanService_Apply_MenuReferences(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)
	soup := testutil.CreateMenu(t, f.conn, "Soup")
	milk := testutil.CreateMenu(t, f.conn, "Milk")

	outcome, err := f.scan.Apply(ctx, f.payload, domain.MenuRefFromID(soup.ID), domain.ItemStatusTaken)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusChange{MenuID: soup.ID, MenuName: "Soup", Status: domain.ItemStatusTaken}, outcome.Updated)
	assert.True(t, outcome.Timestamp.Equal(issuedAt))

	outcome, err = f.scan.Apply(ctx, f.payload, domain.MenuRefFromText("Milk"), domain.ItemStatusWait)
	require.NoError(t, err)
	assert.Equal(t, milk.ID, outcome.Updated.MenuID)

	outcome, err = f.scan.Apply(ctx, f.payload, domain.MenuRefFromText(uintString(soup.ID)), domain.ItemStatusWait)
	require.NoError(t, err)
	assert.Equal(t, soup.ID, outcome.Updated.MenuID)

	require.Len(t, outcome.Statuses, 2)
	assert.Equal(t, soup.ID, outcome.Statuses[0].MenuID)
	assert.Equal(t, domain.ItemStatusWait, outcome.Statuses[0].Status)
	assert.Equal(t, milk.ID, outcome.Statuses[1].MenuID)

	_, err = f.scan.Apply(ctx, f.payload, domain.MenuRefFromName(uintString(soup.ID)), domain.ItemStatusTaken)
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestScanService_Apply_NumericNameFallback(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)
	named := testutil.CreateMenu(t, f.conn, "404")

	outcome, err := f.scan.Apply(ctx, f.payload, domain.MenuRefFromText("404"), domain.ItemStatusTaken)
	require.NoError(t, err)
	assert.Equal(t, named.ID, outcome.Updated.MenuID)
}

func TestScanService_Apply_RejectedWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)
	soup := testutil.CreateMenu(t, f.conn, "Soup")

	_, err := f.scan.Apply(ctx, f.payload, domain.MenuRefFromName("Pizza"), domain.ItemStatusTaken)
	assert.ErrorIs(t, err, ErrMenuNotFound)

	_, err = f.scan.Apply(ctx, f.payload, domain.MenuRefFromID(soup.ID), domain.ItemStatus("eaten"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.scan.Apply(ctx, "bogus", domain.MenuRefFromID(soup.ID), domain.ItemStatusTaken)
	assert.ErrorIs(t, err, ErrQRBadFormat)

	f.clock.now = issuedAt.Add(121 * time.Second)
	_, err = f.scan.Apply(ctx, f.payload, domain.MenuRefFromID(soup.ID), domain.ItemStatusTaken)
	assert.ErrorIs(t, err, ErrQRTokenExpired)

	assert.Zero(t, f.countRows(t, soup.ID))
}

func TestScanService_Apply_UpdatesSingleRow(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)
	soup := testutil.CreateMenu(t, f.conn, "Soup")

	for _, status := range []domain.ItemStatus{domain.ItemStatusWait, domain.ItemStatusTaken, domain.ItemStatusNotTaken} {
		_, err := f.scan.Apply(ctx, f.payload, domain.MenuRefFromID(soup.ID), status)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), f.countRows(t, soup.ID))

	statuses, err := repository.NewStores(f.conn).Statuses.FindByUserID(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, domain.ItemStatusNotTaken, statuses[0].Status)
}

func TestScanService_Apply_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)
	soup := testutil.CreateMenu(t, f.conn, "Soup")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, status := range []domain.ItemStatus{domain.ItemStatusTaken, domain.ItemStatusWait} {
		wg.Add(1)
		go func(status domain.ItemStatus) {
			defer wg.Done()
			_, err := f.scan.Apply(ctx, f.payload, domain.MenuRefFromID(soup.ID), status)
			errs <- err
		}(status)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), f.countRows(t, soup.ID))

	statuses, err := repository.NewStores(f.conn).Statuses.FindByUserID(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Contains(t, []domain.ItemStatus{domain.ItemStatusTaken, domain.ItemStatusWait}, statuses[0].Status)
}
