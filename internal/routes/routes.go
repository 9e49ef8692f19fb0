package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/demo-credit/wallet_ledger/internal/auth"
	"github.com/demo-credit/wallet_ledger/internal/config"
	"github.com/demo-credit/wallet_ledger/internal/identity"
	"github.com/demo-credit/wallet_ledger/internal/ledger"
	"github.com/demo-credit/wallet_ledger/internal/middleware"
	"github.com/demo-credit/wallet_ledger/internal/notification"
	"github.com/demo-credit/wallet_ledger/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database, development environments fall back to in-memory stores.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var (
		walletRepo   wallet.Repository
		identityRepo identity.Repository
	)
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		d.Logger.Warn("no database configured, using in-memory stores")
		walletRepo = wallet.NewMemoryRepository()
		identityRepo = identity.NewMemoryRepository()
	}

	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg)
	walletSvc := wallet.NewService(walletRepo)
	notifier := notification.NewLoggerNotifier(d.Logger)
	ledgerSvc := ledger.New(walletRepo, ledger.ConfigFrom(d.Cfg), notifier, d.Logger)

	authn := middleware.JWTAuth(authSvc, identityRepo)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger)

	api := app.Group("/api/v1")
	RegisterAuthRoutes(api, auth.NewHandler(identitySvc, authSvc), rateLimiter)
	RegisterIdentityRoutes(api, identity.NewHandler(identitySvc), authn)
	RegisterWalletRoutes(api, wallet.NewHandler(walletSvc), ledger.NewHandler(ledgerSvc), authn)

	return nil
}
