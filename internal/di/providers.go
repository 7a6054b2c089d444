package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/Suya678/Stream/internal/app"
	"github.com/Suya678/Stream/internal/config"
	"github.com/Suya678/Stream/internal/database"
	"github.com/Suya678/Stream/internal/http/handler"
	"github.com/Suya678/Stream/internal/http/router"
	"github.com/Suya678/Stream/internal/observability"
	"github.com/Suya678/Stream/internal/repository"
	"github.com/Suya678/Stream/internal/security"
	"github.com/Suya678/Stream/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

var DatabaseSet = wire.NewSet(database.Open)

var RepositorySet = wire.NewSet(repository.NewUserRepository)

var SecuritySet = wire.NewSet(providePasswordHasher, provideJWTManager, provideCookieManager)

var ServiceSet = wire.NewSet(
	provideEmailVerificationNotifier,
	service.NewAuthService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg)
}

func providePasswordHasher(cfg *config.Config) *security.PasswordHasher {
	return security.NewPasswordHasher(cfg.BcryptCost)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTSecret, cfg.SessionTokenTTL)
}

func provideCookieManager(cfg *config.Config) *security.CookieManager {
	return security.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite)
}

func provideEmailVerificationNotifier(cfg *config.Config, logger *slog.Logger) service.EmailVerificationNotifier {
	if cfg.ResendAPIKey != "" {
		return service.NewResendEmailVerificationNotifier(cfg.ResendAPIKey, cfg.ResendNoReplyEmail)
	}
	return service.NewDevEmailVerificationNotifier(logger)
}

func provideRouterDependencies(auth *handler.AuthHandler, logger *slog.Logger) router.Dependencies {
	return router.Dependencies{Auth: auth, Logger: logger}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// MigrationRunner applies the schema and exits; used by the `migrate`
// subcommand.
type MigrationRunner struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewMigrationRunner(db *gorm.DB, logger *slog.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, logger: logger}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	m.logger.Info("database migration complete")
	return nil
}
