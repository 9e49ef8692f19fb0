package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/wallet_ledger/internal/middleware"
)

// Handler exposes wallet directory HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Response is the JSON shape of a wallet. Balances are rendered with two
// fractional digits.
type Response struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts a wallet to its JSON representation.
func ToResponse(w Wallet) Response {
	return Response{
		ID:        w.ID,
		UserID:    w.OwnerID,
		Balance:   w.Balance.StringFixed(2),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toResponses(wallets []Wallet) []Response {
	out := make([]Response, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, ToResponse(w))
	}
	return out
}

// ParamID reads a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "validation failed (numeric string is expected)")
	}
	return int64(id), nil
}

// Create provisions a wallet owned by the authenticated caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.service.Create(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, ErrInvalidOwner) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(ToResponse(w))
}

// Mine lists the caller's wallets.
func (h *Handler) Mine(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	wallets, err := h.service.ListByOwner(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponses(wallets))
}

// Get returns a single wallet.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(ToResponse(w))
}

// List returns all wallets.
func (h *Handler) List(c *fiber.Ctx) error {
	wallets, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponses(wallets))
}
