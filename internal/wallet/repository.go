package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no wallet matches the requested id.
var ErrNotFound = errors.New("wallet not found")

// Repository is the durable wallet store. Reads serve the directory; balance
// mutations only happen through the Tx handed to RunInTx.
type Repository interface {
	Create(ctx context.Context, ownerID int64) (Wallet, error)
	Get(ctx context.Context, id int64) (Wallet, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Wallet, error)
	List(ctx context.Context) ([]Wallet, error)
	// RunInTx commits every write made through tx when fn returns nil and
	// rolls all of them back when fn returns an error or panics.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx mutates balances inside a transaction opened by Repository.RunInTx.
// Both methods report the number of rows they changed.
type Tx interface {
	Increment(ctx context.Context, id int64, delta decimal.Decimal) (int64, error)
	// Decrement only applies when the current balance covers delta, so zero
	// rows means the wallet is missing or the funds are insufficient.
	Decrement(ctx context.Context, id int64, delta decimal.Decimal) (int64, error)
}

const walletColumns = `id, user_id, balance::text, created_at, updated_at`

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a zero-balance wallet and returns the stored row.
func (r *PostgresRepository) Create(ctx context.Context, ownerID int64) (Wallet, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO wallets (user_id) VALUES ($1) RETURNING `+walletColumns, ownerID)
	return scanWallet(row)
}

// Get fetches a wallet by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrNotFound
	}
	return w, err
}

// ListByOwner returns every wallet owned by the user.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Wallet, error) {
	return r.query(ctx, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 ORDER BY id`, ownerID)
}

// List returns all wallets.
func (r *PostgresRepository) List(ctx context.Context) ([]Wallet, error) {
	return r.query(ctx, `SELECT `+walletColumns+` FROM wallets ORDER BY id`)
}

// RunInTx runs fn inside a read-committed transaction. Conditional updates
// re-evaluate their WHERE clause after acquiring the row lock, which is what
// keeps concurrent decrements from overdrawing a wallet.
func (r *PostgresRepository) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(postgresTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *PostgresRepository) query(ctx context.Context, sql string, args ...any) ([]Wallet, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]Wallet, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

type postgresTx struct {
	tx pgx.Tx
}

func (t postgresTx) Increment(ctx context.Context, id int64, delta decimal.Decimal) (int64, error) {
	tag, err := t.tx.Exec(ctx, `UPDATE wallets SET balance = balance + $2::numeric, updated_at = now()
        WHERE id = $1`, id, delta.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t postgresTx) Decrement(ctx context.Context, id int64, delta decimal.Decimal) (int64, error) {
	tag, err := t.tx.Exec(ctx, `UPDATE wallets SET balance = balance - $2::numeric, updated_at = now()
        WHERE id = $1 AND balance >= $2::numeric`, id, delta.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w         Wallet
		balance   string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&w.ID, &w.OwnerID, &balance, &createdAt, &updatedAt); err != nil {
		return Wallet{}, err
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return Wallet{}, fmt.Errorf("parse balance of wallet %d: %w", w.ID, err)
	}
	w.Balance = amount
	w.CreatedAt = createdAt.UTC()
	w.UpdatedAt = updatedAt.UTC()
	return w, nil
}
