package wallet

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that overwrites a wallet balance when using the
// in-memory repository. Other repositories are left untouched.
func SeedBalance(repo Repository, id int64, amount decimal.Decimal) {
	mem, ok := repo.(*memoryRepository)
	if !ok {
		return
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	if w, exists := mem.wallets[id]; exists {
		w.Balance = amount
		mem.wallets[id] = w
	}
}
