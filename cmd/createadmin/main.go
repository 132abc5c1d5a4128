// createadmin allow-lists an email address and gives its account staff
// rights, creating the account when needed.
//
//	go run ./cmd/createadmin --email chef@campus.edu --username chef
//
// The password is read from --password or CANTEEN_ADMIN_PASSWORD and is only
// used when a new account is created.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vietanh2810/canteen-qr-api/cmd/app"
	"github.com/vietanh2810/canteen-qr-api/internal/config"
	"github.com/vietanh2810/canteen-qr-api/internal/domain"
	"github.com/vietanh2810/canteen-qr-api/internal/logger"
	"github.com/vietanh2810/canteen-qr-api/internal/repository"
	"github.com/vietanh2810/canteen-qr-api/internal/service"
)

const passwordEnv = "CANTEEN_ADMIN_PASSWORD"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		user       domain.User
	)

	flagSet := pflag.NewFlagSet("createadmin", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "./cmd/app/config.yml", "path to the YAML config file")
	flagSet.StringVar(&user.Email, "email", "", "admin email address (required)")
	flagSet.StringVar(&user.Username, "username", "", "username for a new account (required when the account does not exist)")
	flagSet.StringVar(&user.Password, "password", os.Getenv(passwordEnv), "password for a new account (default $"+passwordEnv+")")
	flagSet.StringVar(&user.FirstName, "first-name", "", "first name for a new account")
	flagSet.StringVar(&user.LastName, "last-name", "", "last name for a new account")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if user.Email == "" {
		return errors.New("--email is required")
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load -> %w", err)
	}
	if err := logger.Init(conf.API.Environment); err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	gormDB, err := app.OpenDatabase(ctx, conf)
	if err != nil {
		return err
	}

	stores := repository.NewStores(gormDB)
	svc := service.NewAuthService(stores.Users, stores.Allowlist, service.TokenConfig{
		SigningKey: []byte(conf.API.JWTSigningKey),
	}, nil)

	admin, created, err := svc.EnsureAdmin(ctx, user)
	if err != nil {
		return fmt.Errorf("svc.EnsureAdmin -> %w", err)
	}

	zap.L().Info("admin ready",
		zap.Uint("user_id", admin.ID),
		zap.String("username", admin.Username),
		zap.Bool("created", created),
	)

	return nil
}
