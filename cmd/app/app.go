package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/canteen-qr-api/internal/api"
	"github.com/vietanh2810/canteen-qr-api/internal/config"
	"github.com/vietanh2810/canteen-qr-api/internal/db"
	"github.com/vietanh2810/canteen-qr-api/internal/logger"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/cache"
	"github.com/vietanh2810/canteen-qr-api/internal/repository/dao"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

const (
	configPath   = "./cmd/app/config.yml"
	sqliteScheme = "sqlite://"
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	gormDB, err := OpenDatabase(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	var sessions service.RefreshSessionStore
	if conf.Redis.URL != "" {
		client, err := cache.OpenRedis(ctx, conf.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to initialize redis -> %w", err)
		}
		defer client.Close()

		sessions = cache.NewRefreshSessionStore(client)
		zap.L().Info("refresh token rotation enabled")
	}

	conf.Watch()

	s, err := api.NewServer(conf, gormDB, sessions)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr),
		zap.Duration("qr_token_ttl", conf.QR.TTL()),
	)
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// OpenDatabase connects to DATABASE_URL when set, or to the postgres section
// of conf otherwise. A sqlite:// URL opens a local SQLite file whose schema
// is created on the spot.
func OpenDatabase(ctx context.Context, conf *config.AppConfig) (*gorm.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")

	if strings.HasPrefix(dbURL, sqliteScheme) {
		sqliteDB, err := db.OpenSQLite(strings.TrimPrefix(dbURL, sqliteScheme))
		if err != nil {
			return nil, err
		}
		if err := dao.InitTables(sqliteDB); err != nil {
			return nil, fmt.Errorf("dao.InitTables -> %w", err)
		}

		return sqliteDB, nil
	}

	var (
		postgresDB *gorm.DB
		err        error
	)
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, err
	}

	if conf.Postgres.AutoMigrate {
		if err := db.Migrate(ctx, postgresDB, "up"); err != nil {
			return nil, err
		}
	}

	return postgresDB, nil
}
