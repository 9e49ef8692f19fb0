package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/demo-credit/wallet_ledger/internal/ledger"
	"github.com/demo-credit/wallet_ledger/internal/wallet"
)

// RegisterWalletRoutes wires the wallet directory and money movement
// endpoints. Lookups and deposits are public; everything acting for a caller
// goes through authn. /wallets/me is registered before /wallets/:id so it is
// not captured by the parameter route.
func RegisterWalletRoutes(r fiber.Router, wallets *wallet.Handler, money *ledger.Handler, authn fiber.Handler) {
	r.Post("/wallets", authn, wallets.Create)
	r.Get("/wallets/me", authn, wallets.Mine)
	r.Get("/wallets", wallets.List)
	r.Get("/wallets/:id", wallets.Get)

	r.Post("/wallets/:id/deposit", money.Deposit)
	r.Post("/wallets/:id/withdraw", authn, money.Withdraw)
	r.Post("/wallets/:id/transfer", authn, money.Transfer)
}
