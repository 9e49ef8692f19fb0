package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/wallet_ledger/internal/auth"
	"github.com/demo-credit/wallet_ledger/internal/identity"
	"github.com/demo-credit/wallet_ledger/internal/middleware"
)

// RegisterAuthRoutes wires sign-up and sign-in. Only sign-in passes through
// the rate limiter.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/sign-up", h.SignUp)
	group.Post("/sign-in", rateLimiter, h.SignIn)
}

// RegisterIdentityRoutes wires the user lookups, all of which require authn.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler, authn fiber.Handler) {
	users := r.Group("/users", authn)
	users.Get("/me", func(c *fiber.Ctx) error {
		uid, ok := middleware.CallerID(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		return h.Me(c, uid)
	})
	users.Get("/:id", h.Get)
	users.Get("/", h.List)
}
