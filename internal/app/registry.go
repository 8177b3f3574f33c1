package app

import (
	"net/http"

	"ems-sync/internal/auth"
	"ems-sync/internal/config"
	"ems-sync/internal/employee"
	"ems-sync/internal/middleware"
	"ems-sync/internal/shared/audit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	infra *Infra,
	gen employee.Generator,
	auditLogger audit.Logger,
) error {
	logger := zap.L()

	// --- Directory ---
	employeeStore := employee.NewStore(gen)
	employeeStore.Subscribe(func(snap employee.Snapshot) {
		logger.Debug("employee directory changed",
			zap.Uint64("version", snap.Version()),
			zap.Int("count", snap.Len()),
		)
	})

	var publisher employee.EventPublisher = employee.NewNoopEventPublisher()
	if infra.Kafka != nil {
		publisher = employee.NewKafkaEventPublisher(infra.Kafka)
	}

	// --- Session ---
	var tokens auth.TokenStore = auth.NewMemoryTokenStore()
	if infra.Redis != nil {
		tokens = auth.NewRedisTokenStore(infra.Redis)
	}

	signer, err := auth.NewTokenSigner(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	registry := auth.NewRegistry(func(sid string) auth.Gateway {
		return auth.NewTokenGateway(sid, tokens, signer, employeeStore)
	})
	employeeStore.Subscribe(func(snap employee.Snapshot) {
		registry.DropMissingSubjects(snap)
	})

	credentials := auth.NewCredentialStore(bcrypt.DefaultCost)
	if cfg.DemoPassword != "" {
		if err := credentials.SetDefault(cfg.DemoPassword); err != nil {
			return err
		}
	}

	// --- Services ---
	authService := auth.NewService(registry, tokens, signer, employeeStore, credentials, auditLogger)
	employeeService := employee.NewService(employeeStore, publisher, infra.Redis)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Name:   cfg.SessionCookie,
		MaxAge: int(cfg.SessionTTL.Seconds()),
		Secure: cfg.IsProduction(),
	})
	employeeHandler := employee.NewHandler(employeeService)

	// --- Routes Registration ---
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": employeeStore.Snapshot().Version()})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.ContextLogger(logger))
	{
		auth.RegisterRoutes(api, authHandler, authService)
		employee.RegisterRoutes(api, employeeHandler, infra.Redis,
			auth.SessionContext(authService, cfg.SessionCookie),
			auth.RequireAuthenticated(),
		)
	}

	return nil
}
