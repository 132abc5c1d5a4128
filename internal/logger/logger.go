package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/canteen-qr-api/internal/config"
)

// Init builds a zap logger for env and installs it as the global logger
// returned by zap.L().
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)

	if env == config.EnvProduction {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build zap logger -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

// Sync flushes buffered log entries. Errors from syncing stdout/stderr are
// ignored.
func Sync() {
	_ = zap.L().Sync()
}
