package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/wallet_ledger/internal/config"
	"github.com/demo-credit/wallet_ledger/internal/infra"
	"github.com/demo-credit/wallet_ledger/internal/middleware"
	"github.com/demo-credit/wallet_ledger/internal/routes"
)

const (
	ioTimeout = 30 * time.Second
	// Request bodies are small JSON documents.
	bodyLimit = 64 * 1024
)

// Server owns the Fiber application.
type Server struct {
	app  *fiber.App
	addr string
}

// New builds the Fiber app and wires every route against stores. Nil stores
// or nil store fields select the in-memory backends, which routes.Setup only
// accepts in development.
func New(cfg config.Config, stores *infra.Stores, logger *slog.Logger) (*Server, error) {
	if stores == nil {
		stores = &infra.Stores{}
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           ioTimeout,
		WriteTimeout:          ioTimeout,
		BodyLimit:             bodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
		DisableStartupMessage: !cfg.IsDev(),
	})

	deps := routes.Deps{Cfg: cfg, DB: stores.DB, Cache: stores.Cache, Logger: logger}
	if err := routes.Setup(app, deps); err != nil {
		return nil, err
	}
	return &Server{app: app, addr: cfg.Address()}, nil
}

// App exposes the underlying Fiber application for in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

// Shutdown waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
