package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/canteen-qr-api/internal/config"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
	"github.com/vietanh2810/canteen-qr-api/internal/testutil"
)

const (
	adminPassword   = "Kitchen2025x"
	studentPassword = "Lunch2025x"
)

type testServer struct {
	t  *testing.T
	s  *Server
	db *gorm.DB
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		API: &config.APIConfig{
			Environment:     config.EnvDevelopment,
			Port:            "0",
			BaseURL:         "localhost",
			JWTSigningKey:   "api-test-key",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			MenuPublicRead:  true,
		},
		Gin:      &config.GinConfig{Mode: gin.TestMode},
		Postgres: &config.PostgresConfig{},
		Redis:    &config.RedisConfig{},
		QR:       &config.QRConfig{},
		Metrics:  &config.MetricsConfig{Enabled: true},
	}
}

func newTestServer(t *testing.T, conf *config.AppConfig) *testServer {
	t.Helper()

	conn := testutil.NewDB(t)
	s, err := NewServer(conf, conn, nil)
	require.NoError(t, err)

	stores := repository.NewStores(conn)
	auth := service.NewAuthService(stores.Users, stores.Allowlist, service.TokenConfig{
		SigningKey: []byte(conf.API.JWTSigningKey),
	}, nil)
	_, _, err = auth.EnsureAdmin(context.Background(), domain.User{
		Username: "chef",
		Email:    "chef@campus.edu",
		Password: adminPassword,
	})
	require.NoError(t, err)

	return &testServer{t: t, s: s, db: conn}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.s.Router.ServeHTTP(rec, req)

	return rec
}

func (ts *testServer) decode(rec *httptest.ResponseRecorder, v any) {
	ts.t.Helper()
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (ts *testServer) login(username, password string) (access, refresh string) {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	ts.decode(rec, &body)

	return body.Access, body.Refresh
}

// registerStudent allow-lists the address as admin and registers it.
func (ts *testServer) registerStudent(admin, username, email string) string {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/admin/allowed-emails/", admin, gin.H{"email": email})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": studentPassword,
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	access, _ := ts.login(username, studentPassword)

	return access
}

func (ts *testServer) issueQR(token string) string {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/user/qr/", token, nil)
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data string `json:"data"`
	}
	ts.decode(rec, &body)

	return body.Data
}

func (ts *testServer) createMenu(admin, name string) uint {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/menu/", admin, gin.H{"name": name})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	var menu domain.Menu
	ts.decode(rec, &menu)

	return menu.ID
}

func TestRegistration(t *testing.T) {
	ts := newTestServer(t, testConfig())
	admin, _ := ts.login("chef", adminPassword)

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "mallory",
		"email":    "mallory@campus.edu",
		"password": studentPassword,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not approved")

	rec = ts.do(http.MethodPost, "/api/v1/admin/allowed-emails/", admin, gin.H{"email": "Alice@Campus.edu", "note": "cs"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@campus.edu",
		"password": studentPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user map[string]any
	ts.decode(rec, &user)
	assert.Equal(t, "alice", user["username"])
	assert.NotEmpty(t, user["public_id"])
	assert.Equal(t, false, user["is_staff"])
	assert.NotContains(t, user, "password")

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice2",
		"email":    "ALICE@campus.edu",
		"password": studentPassword,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email"`)

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginAndRefresh(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "chef", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access, refresh := ts.login("chef@campus.edu", adminPassword)

	rec = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh": refresh})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh": access})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig())
	admin, _ := ts.login("chef", adminPassword)
	student := ts.registerStudent(admin, "alice", "alice@campus.edu")

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/v1/user/me", "", nil).Code)

	rec := ts.do(http.MethodGet, "/api/v1/user/me", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = ts.do(http.MethodGet, "/api/v1/user/statuses", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"statuses":[]}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/v1/user/qr/", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var qr struct {
		Data      string    `json:"data"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	ts.decode(rec, &qr)
	assert.True(t, strings.HasPrefix(qr.Data, domain.QRPrefix))
	assert.Len(t, strings.TrimPrefix(qr.Data, domain.QRPrefix), 32)
	assert.WithinDuration(t, time.Now().Add(2*time.Minute), qr.ExpiresAt, 10*time.Second)

	rec = ts.do(http.MethodGet, "/api/v1/user/qr.png", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="qr.png"`, rec.Header().Get("Content-Disposition"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestScanFlow(t *testing.T) {
	ts := newTestServer(t, testConfig())
	admin, _ := ts.login("chef", adminPassword)
	student := ts.registerStudent(admin, "alice", "alice@campus.edu")
	soupID := ts.createMenu(admin, "Soup")
	ts.createMenu(admin, "Milk")
	payload := ts.issueQR(student)

	rec := ts.do(http.MethodPost, "/api/v1/admin/scan/resolve/", student, gin.H{"qr": "garbage"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/resolve/", admin, gin.H{"qr": payload})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view struct {
		User        domain.User             `json:"user"`
		Statuses    []domain.UserItemStatus `json:"statuses"`
		QRExpiresAt time.Time               `json:"qr_expires_at"`
	}
	ts.decode(rec, &view)
	assert.Equal(t, "alice", view.User.Username)
	assert.NotNil(t, view.Statuses)
	assert.Empty(t, view.Statuses)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/action/", admin, gin.H{"qr": payload, "item": "Milk", "status": "taken"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var outcome struct {
		Updated  domain.StatusChange     `json:"updated"`
		Statuses []domain.UserItemStatus `json:"statuses"`
	}
	ts.decode(rec, &outcome)
	assert.Equal(t, "Milk", outcome.Updated.MenuName)
	assert.Equal(t, domain.ItemStatusTaken, outcome.Updated.Status)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/action/", admin, gin.H{"qr": payload, "item": strconv.FormatUint(uint64(soupID), 10), "status": "wait"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ts.decode(rec, &outcome)
	assert.Equal(t, soupID, outcome.Updated.MenuID)
	assert.Len(t, outcome.Statuses, 2)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/action/", admin, gin.H{"qr": payload, "item": "Pizza", "status": "taken"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"item":"Pizza"`)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/action/", admin, gin.H{"qr": payload, "item_id": soupID, "status": "eaten"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/resolve/", admin, gin.H{"qr": "abc123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/resolve/", admin, gin.H{"qr": "QR:ffffffffffffffffffffffffffffffff"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/user/statuses", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var own struct {
		Statuses []domain.UserItemStatus `json:"statuses"`
	}
	ts.decode(rec, &own)
	require.Len(t, own.Statuses, 2)
	assert.Equal(t, soupID, own.Statuses[0].MenuID)
	assert.Equal(t, domain.ItemStatusWait, own.Statuses[0].Status)
}

func TestScanExpiredToken(t *testing.T) {
	ts := newTestServer(t, testConfig())
	admin, _ := ts.login("chef", adminPassword)
	soupID := ts.createMenu(admin, "Soup")
	student := testutil.CreateUser(t, ts.db, "bob", "bob@campus.edu", false)

	now := time.Now()
	_, err := dao.NewQRTokenDAO(ts.db).Insert(context.Background(), dao.QRToken{
		UserID:    student.ID,
		Token:     "0123456789abcdef0123456789abcdef",
		CreatedAt: now.Add(-10 * time.Minute),
		ExpiresAt: now.Add(-8 * time.Minute),
	})
	require.NoError(t, err)

	payload := domain.QRPrefix + "0123456789abcdef0123456789abcdef"

	rec := ts.do(http.MethodPost, "/api/v1/admin/scan/resolve/", admin, gin.H{"qr": payload})
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/scan/action/", admin, gin.H{"qr": payload, "item_id": soupID, "status": "taken"})
	assert.Equal(t, http.StatusGone, rec.Code)

	count, err := dao.NewItemStatusDAO(ts.db).CountByUserAndMenu(context.Background(), student.ID, soupID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMenuEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig())
	admin, _ := ts.login("chef", adminPassword)
	student := ts.registerStudent(admin, "alice", "alice@campus.edu")

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/api/v1/menu/", "", gin.H{"name": "Soup"}).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodPost, "/api/v1/menu/", student, gin.H{"name": "Soup"}).Code)

	soupID := ts.createMenu(admin, "Soup")
	path := "/api/v1/menu/" + strconv.FormatUint(uint64(soupID), 10) + "/"

	rec := ts.do(http.MethodPost, "/api/v1/menu/", admin, gin.H{"name": "Soup"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/menu/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var menus []domain.Menu
	ts.decode(rec, &menus)
	require.Len(t, menus, 1)
	assert.True(t, menus[0].Available)

	rec = ts.do(http.MethodPatch, path, admin, gin.H{"available": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var menu domain.Menu
	ts.decode(rec, &menu)
	assert.Equal(t, "Soup", menu.Name)
	assert.False(t, menu.Available)

	rec = ts.do(http.MethodPut, path, admin, gin.H{"name": "Soup of the day", "description": "Leek"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ts.decode(rec, &menu)
	assert.Equal(t, "Soup of the day", menu.Name)
	assert.Equal(t, "Leek", menu.Description)
	assert.True(t, menu.Available)

	rec = ts.do(http.MethodGet, path, student, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodDelete, path, student, nil).Code)
	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/v1/menu/abc/", "", nil).Code)
}

func TestMenuPrivateRead(t *testing.T) {
	conf := testConfig()
	conf.API.MenuPublicRead = false
	ts := newTestServer(t, conf)
	admin, _ := ts.login("chef", adminPassword)

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/v1/menu/", "", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/v1/menu/", admin, nil).Code)
}

func TestAllowlistEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig())
	admin, _ := ts.login("chef", adminPassword)

	rec := ts.do(http.MethodPost, "/api/v1/admin/allowed-emails/", admin, gin.H{"email": "new@campus.edu"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry domain.AllowedEmail
	ts.decode(rec, &entry)

	rec = ts.do(http.MethodPost, "/api/v1/admin/allowed-emails/", admin, gin.H{"email": "NEW@campus.edu"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/admin/allowed-emails/", admin, gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/admin/allowed-emails/", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []domain.AllowedEmail
	ts.decode(rec, &entries)
	assert.Len(t, entries, 2)

	path := "/api/v1/admin/allowed-emails/" + strconv.FormatUint(uint64(entry.ID), 10) + "/"
	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, path, admin, nil).Code)
}

func TestHealthcheckAndMetrics(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "canteen_http_requests_total")
}

func TestMetricsDisabled(t *testing.T) {
	conf := testConfig()
	conf.Metrics.Enabled = false
	ts := newTestServer(t, conf)

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/metrics", "", nil).Code)
}
