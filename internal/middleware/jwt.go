package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/wallet_ledger/internal/identity"
)

const callerIDKey = "user_id"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// UserFinder confirms that the token subject still exists.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (identity.User, error)
}

// JWTAuth rejects requests without a valid bearer token for an existing user
// and records the caller id for CallerID.
func JWTAuth(tokens TokenVerifier, users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		uid, err := tokens.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		if _, err := users.FindByID(c.UserContext(), uid); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unknown user")
		}

		c.Locals(callerIDKey, uid)
		return c.Next()
	}
}

// CallerID returns the authenticated user id set by JWTAuth.
func CallerID(c *fiber.Ctx) (int64, bool) {
	uid, ok := c.Locals(callerIDKey).(int64)
	return uid, ok && uid > 0
}
