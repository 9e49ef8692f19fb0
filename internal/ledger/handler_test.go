package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demo-credit/wallet_ledger/internal/identity"
	"github.com/demo-credit/wallet_ledger/internal/logging"
	"github.com/demo-credit/wallet_ledger/internal/middleware"
	"github.com/demo-credit/wallet_ledger/internal/wallet"
)

type tokenTable map[string]int64

func (tt tokenTable) Verify(token string) (int64, error) {
	if id, ok := tt[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

type anyUser struct{}

func (anyUser) FindByID(_ context.Context, id int64) (identity.User, error) {
	return identity.User{ID: id}, nil
}

func newHandlerApp(t *testing.T) (*fiber.App, wallet.Repository) {
	t.Helper()
	repo := wallet.NewMemoryRepository()
	h := NewHandler(New(repo, DefaultConfig(), nil, logging.Discard()))
	authn := middleware.JWTAuth(tokenTable{"alice": 1, "bob": 2}, anyUser{})

	app := fiber.New()
	app.Post("/wallets/:id/deposit", h.Deposit)
	app.Post("/wallets/:id/withdraw", authn, h.Withdraw)
	app.Post("/wallets/:id/transfer", authn, h.Transfer)
	return app, repo
}

func post(t *testing.T, app *fiber.App, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestHandlerDeposit(t *testing.T) {
	app, repo := newHandlerApp(t)
	w := newWallet(t, repo, 1, "")

	status, body := post(t, app, fmt.Sprintf("/wallets/%d/deposit", w.ID), "", `{"amount": 100.00}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "100.00", body["balance"])
	assert.EqualValues(t, 1, body["user_id"])

	status, _ = post(t, app, fmt.Sprintf("/wallets/%d/deposit", w.ID), "", `{"amount": "6000000"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, fmt.Sprintf("/wallets/%d/deposit", w.ID), "", `{"amount": 0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, "/wallets/999/deposit", "", `{"amount": 1}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = post(t, app, "/wallets/abc/deposit", "", `{"amount": 1}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	assert.Equal(t, "100.00", balanceOf(t, repo, w.ID))
}

func TestHandlerWithdraw(t *testing.T) {
	app, repo := newHandlerApp(t)
	w := newWallet(t, repo, 1, "40")
	path := fmt.Sprintf("/wallets/%d/withdraw", w.ID)

	status, _ := post(t, app, path, "", `{"amount": 1}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = post(t, app, path, "bob", `{"amount": 1}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = post(t, app, path, "alice", `{"amount": 41}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := post(t, app, path, "alice", `{"amount": "15.50"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "24.50", body["balance"])
}

func TestHandlerTransfer(t *testing.T) {
	app, repo := newHandlerApp(t)
	a := newWallet(t, repo, 1, "50")
	b := newWallet(t, repo, 2, "")
	path := fmt.Sprintf("/wallets/%d/transfer", a.ID)

	status, _ := post(t, app, path, "alice", `{"amount": 10}`)
	assert.Equal(t, fiber.StatusBadRequest, status, "recipient is required")

	status, _ = post(t, app, path, "alice", `{"amount": 10, "recipient": 999}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, path, "bob", fmt.Sprintf(`{"amount": 10, "recipient": %d}`, b.ID))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := post(t, app, path, "alice", fmt.Sprintf(`{"amount": 50, "recipient": %d}`, b.ID))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "0.00", body["balance"])
	assert.Equal(t, "50.00", balanceOf(t, repo, b.ID))
}

func TestToHTTPErrorHidesStoreDetails(t *testing.T) {
	err := toHTTPError(fmt.Errorf("%w: pq: connection refused", ErrTransactionFailed))
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusInternalServerError, fe.Code)
	assert.Equal(t, "transaction unsuccessful", fe.Message)
}
