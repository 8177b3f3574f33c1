package main

import (
	"time"

	"ems-sync/internal/app"
	"ems-sync/internal/bootstrap"
	"ems-sync/internal/config"
	"ems-sync/internal/shared/apperror"
	"ems-sync/internal/shared/audit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	auditLogger := audit.NewStdoutLogger()

	// build dependency + routes
	infra, err := app.BuildApp(r, cfg, auditLogger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer infra.Close()

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		auditLogger,
	)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogJSON || cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
