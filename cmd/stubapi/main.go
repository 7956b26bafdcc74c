package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hris-admin/internal/audit"
	"go-hris-admin/internal/bootstrap"
	"go-hris-admin/internal/config"
	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/stubapi"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := stubapi.NewStore(time.Now)
	if cfg.Stub.Seed {
		if err := stubapi.Seed(store); err != nil {
			logger.Fatal("seed stub data failed", zap.Error(err))
		}
	}

	router := stubapi.NewRouter(store, stubapi.RouterConfig{
		JWTSecret:         cfg.Stub.JWTSecret,
		RequestsPerSecond: cfg.Stub.RequestsPerSecond,
		Burst:             cfg.Stub.Burst,
		MaxUploadBytes:    cfg.Stub.MaxUploadBytes,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = bootstrap.StartHTTPServer(ctx, router,
		bootstrap.ServerConfig{
			Port:         cfg.Stub.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		audit.NewStdoutLogger(logger),
	)
	if err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
