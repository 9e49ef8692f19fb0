package wallet

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postgresPool connects to TEST_DATABASE_URL and skips the test when it is not
// set. The users and wallets tables must already exist.
func postgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, password) VALUES ('wallet-test-' || gen_random_uuid() || '@example.com', 'x') RETURNING id`).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func TestPostgresRepositoryConcurrentDecrements(t *testing.T) {
	pool := postgresPool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	w, err := repo.Create(ctx, createTestUser(t, pool))
	require.NoError(t, err)
	require.NoError(t, repo.RunInTx(ctx, func(tx Tx) error {
		_, err := tx.Increment(ctx, w.ID, decimal.NewFromInt(100))
		return err
	}))

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.RunInTx(ctx, func(tx Tx) error {
				n, err := tx.Decrement(ctx, w.ID, decimal.NewFromInt(10))
				mu.Lock()
				applied += n
				mu.Unlock()
				return err
			})
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, applied)
	assert.True(t, got.Balance.IsZero(), "balance %s", got.Balance)
}

func TestPostgresRepositoryNotFound(t *testing.T) {
	repo := NewPostgresRepository(postgresPool(t))
	_, err := repo.Get(context.Background(), -1)
	assert.ErrorIs(t, err, ErrNotFound)
}
