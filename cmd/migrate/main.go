// migrate applies the embedded SQL migrations to the configured Postgres
// database.
//
//	go run ./cmd/migrate            # up
//	go run ./cmd/migrate status
//	go run ./cmd/migrate down-to 0
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vietanh2810/canteen-qr-api/cmd/app"
	"github.com/vietanh2810/canteen-qr-api/internal/config"
	"github.com/vietanh2810/canteen-qr-api/internal/db"
	"github.com/vietanh2810/canteen-qr-api/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string

	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "./cmd/app/config.yml", "path to the YAML config file")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	command := "up"
	var args []string
	if rest := flagSet.Args(); len(rest) > 0 {
		command, args = rest[0], rest[1:]
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load -> %w", err)
	}
	if err := logger.Init(conf.API.Environment); err != nil {
		return err
	}
	defer logger.Sync()

	// Migrations are driven explicitly here, not at open time.
	conf.Postgres.AutoMigrate = false

	ctx := context.Background()
	gormDB, err := app.OpenDatabase(ctx, conf)
	if err != nil {
		return err
	}
	if gormDB.Dialector.Name() != "postgres" {
		return fmt.Errorf("migrations target postgres, got %s", gormDB.Dialector.Name())
	}

	if err := db.Migrate(ctx, gormDB, command, args...); err != nil {
		return err
	}

	zap.L().Info("migrate finished", zap.String("command", command))

	return nil
}
