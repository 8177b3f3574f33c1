package app

import (
	"errors"
	"io"

	"ems-sync/internal/config"
	"ems-sync/internal/employee"
	"ems-sync/internal/employee/seed"
	"ems-sync/internal/shared/audit"
	"ems-sync/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Infra holds the optional external connections. Each one may be nil, in
// which case the in-process fallback is used.
type Infra struct {
	Redis  *redis.Client
	Kafka  employee.MessageWriter
	closer []io.Closer
}

func (i *Infra) Close() error {
	var errs []error
	for _, c := range i.closer {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// BuildApp connects the configured infrastructure, seeds the directory and
// mounts every route on router. The returned Infra must be closed on shutdown.
func BuildApp(router *gin.Engine, cfg config.Config, auditLogger audit.Logger) (*Infra, error) {
	logger := zap.L().Named("app")
	infra := &Infra{}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			return nil, err
		}
		infra.Redis = rdb
		infra.closer = append(infra.closer, rdb)
		logger.Info("redis connection established")
	} else {
		logger.Info("REDIS_ADDR not set, using in-memory session tokens")
	}

	if cfg.KafkaBroker != "" {
		writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Kafka = writer
		infra.closer = append(infra.closer, writer)
		logger.Info("kafka connection established")
	}

	gen, err := buildGenerator(cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	if err := registerModules(router, cfg, infra, gen, auditLogger); err != nil {
		_ = infra.Close()
		return nil, err
	}
	return infra, nil
}

func buildGenerator(cfg config.Config, infra *Infra) (employee.Generator, error) {
	switch cfg.SeedSource {
	case config.SeedSourcePostgres:
		db, err := connection.ConnectGORMWithRetry(
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
			cfg.DB.SSLMode,
			5,
		)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// The seed is read once in NewStore; the pool is closed with the rest.
		infra.closer = append(infra.closer, sqlDB)
		return seed.Postgres(db), nil
	default:
		return seed.Sample(cfg.SeedCount, cfg.SeedRandom), nil
	}
}
