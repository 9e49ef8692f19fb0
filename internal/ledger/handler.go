package ledger

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/demo-credit/wallet_ledger/internal/middleware"
	"github.com/demo-credit/wallet_ledger/internal/validation"
	"github.com/demo-credit/wallet_ledger/internal/wallet"
)

// Handler exposes deposit, withdrawal and transfer endpoints.
type Handler struct {
	ledger *Ledger
}

// NewHandler constructs a ledger HTTP handler.
func NewHandler(l *Ledger) *Handler {
	return &Handler{ledger: l}
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Recipient int64           `json:"recipient" validate:"required,gt=0"`
}

// Deposit credits the :id wallet. No authentication is required.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	id, err := wallet.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	w, err := h.ledger.Deposit(c.UserContext(), id, req.Amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(wallet.ToResponse(w))
}

// Withdraw debits the :id wallet on behalf of its owner.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := wallet.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	w, err := h.ledger.Withdraw(c.UserContext(), uid, id, req.Amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(wallet.ToResponse(w))
}

// Transfer moves money from the :id wallet to the recipient wallet.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	uid, ok := middleware.CallerID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := wallet.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.ledger.Transfer(c.UserContext(), uid, id, req.Recipient, req.Amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(wallet.ToResponse(w))
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrLimitExceeded),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidRecipient):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, ErrTransactionFailed.Error())
	}
}
