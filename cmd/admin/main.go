package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go-hris-admin/internal/app"
	"go-hris-admin/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := app.NewRootCommand(app.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}, logger)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// newLogger keeps the terminal quiet: warnings and up unless ADMIN_LOG_LEVEL
// says otherwise.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if strings.EqualFold(os.Getenv("ADMIN_ENV"), "production") {
		cfg = zap.NewProductionConfig()
	}
	level := zapcore.WarnLevel
	if v := os.Getenv("ADMIN_LOG_LEVEL"); v != "" {
		if err := level.Set(v); err != nil {
			return nil, err
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
