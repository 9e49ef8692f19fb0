package wallet

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	wallets map[int64]Wallet
}

// NewMemoryRepository constructs an in-memory repository for tests and local
// development. RunInTx holds the writer lock for the whole transaction, which
// serializes transactions the way a row lock would. Balances are capped at
// MaxBalance like the NUMERIC(9,2) column.
func NewMemoryRepository() Repository {
	return &memoryRepository{wallets: make(map[int64]Wallet)}
}

func (r *memoryRepository) Create(ctx context.Context, ownerID int64) (Wallet, error) {
	if err := ctx.Err(); err != nil {
		return Wallet{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().UTC()
	w := Wallet{ID: r.nextID, OwnerID: ownerID, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	r.wallets[w.ID] = w
	return w, nil
}

func (r *memoryRepository) Get(ctx context.Context, id int64) (Wallet, error) {
	if err := ctx.Err(); err != nil {
		return Wallet{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (r *memoryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Wallet, error) {
	return r.filter(ctx, func(w Wallet) bool { return w.OwnerID == ownerID })
}

func (r *memoryRepository) List(ctx context.Context) ([]Wallet, error) {
	return r.filter(ctx, func(Wallet) bool { return true })
}

func (r *memoryRepository) filter(ctx context.Context, keep func(Wallet) bool) ([]Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Wallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memoryTx{committed: r.wallets, staged: make(map[int64]Wallet)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for id, w := range tx.staged {
		r.wallets[id] = w
	}
	return nil
}

// memoryTx stages writes until the surrounding RunInTx commits them.
type memoryTx struct {
	committed map[int64]Wallet
	staged    map[int64]Wallet
}

func (t *memoryTx) current(id int64) (Wallet, bool) {
	if w, ok := t.staged[id]; ok {
		return w, true
	}
	w, ok := t.committed[id]
	return w, ok
}

func (t *memoryTx) Increment(ctx context.Context, id int64, delta decimal.Decimal) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	w, ok := t.current(id)
	if !ok {
		return 0, nil
	}
	balance := w.Balance.Add(delta)
	if balance.GreaterThan(MaxBalance) {
		return 0, fmt.Errorf("%w: wallet %d", ErrBalanceOverflow, id)
	}
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	t.staged[id] = w
	return 1, nil
}

func (t *memoryTx) Decrement(ctx context.Context, id int64, delta decimal.Decimal) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	w, ok := t.current(id)
	if !ok || w.Balance.LessThan(delta) {
		return 0, nil
	}
	w.Balance = w.Balance.Sub(delta)
	w.UpdatedAt = time.Now().UTC()
	t.staged[id] = w
	return 1, nil
}
