package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/wallet_ledger/internal/identity"
	"github.com/demo-credit/wallet_ledger/internal/validation"
)

// Handler exposes sign-up and sign-in endpoints.
type Handler struct {
	ids *identity.Service
	svc *Service
}

// NewHandler builds the auth HTTP handler.
func NewHandler(ids *identity.Service, svc *Service) *Handler {
	return &Handler{ids: ids, svc: svc}
}

// SignUp registers a user.
func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req identity.SignUpInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.ids.Register(c.UserContext(), req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			return fiber.NewError(http.StatusBadRequest, verr.Error())
		case errors.Is(err, identity.ErrEmailTaken):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}
	return c.Status(http.StatusCreated).JSON(identity.ToResponse(user))
}

// SignIn validates credentials and returns an access token.
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req identity.SignInInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.ids.Authenticate(c.UserContext(), req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			return fiber.NewError(http.StatusBadRequest, verr.Error())
		case errors.Is(err, identity.ErrInvalidCredentials):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return err
		}
	}
	token, err := h.svc.Login(user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(token)
}
