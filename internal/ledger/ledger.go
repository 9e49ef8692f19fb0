package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/demo-credit/wallet_ledger/internal/config"
	"github.com/demo-credit/wallet_ledger/internal/notification"
	"github.com/demo-credit/wallet_ledger/internal/wallet"
)

const (
	defaultTxTimeout = 5 * time.Second
	// settleTimeout bounds the reads and notifications that follow a commit.
	settleTimeout = 2 * time.Second
)

// Config holds the per-operation ceilings and the transaction time budget.
type Config struct {
	MaxDeposit    decimal.Decimal
	MaxWithdrawal decimal.Decimal
	MaxTransfer   decimal.Decimal
	TxTimeout     time.Duration
}

// DefaultConfig returns the stock ceilings: 5,000,000 per deposit,
// 2,000,000 per withdrawal and 1,000,000 per transfer.
func DefaultConfig() Config {
	return Config{
		MaxDeposit:    decimal.NewFromInt(5_000_000),
		MaxWithdrawal: decimal.NewFromInt(2_000_000),
		MaxTransfer:   decimal.NewFromInt(1_000_000),
		TxTimeout:     defaultTxTimeout,
	}
}

// ConfigFrom extracts the ledger settings from the application config.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		MaxDeposit:    cfg.MaxDeposit,
		MaxWithdrawal: cfg.MaxWithdrawal,
		MaxTransfer:   cfg.MaxTransfer,
		TxTimeout:     cfg.TxTimeout,
	}
}

// Ledger enforces the money movement rules on top of the wallet store. Every
// rule except balance sufficiency is checked before a transaction is opened;
// sufficiency is re-checked by the conditional decrement inside it.
type Ledger struct {
	repo     wallet.Repository
	cfg      Config
	notifier notification.Notifier
	logger   *slog.Logger
}

// New constructs a ledger. notifier may be nil.
func New(repo wallet.Repository, cfg Config, notifier notification.Notifier, logger *slog.Logger) *Ledger {
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = defaultTxTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{repo: repo, cfg: cfg, notifier: notifier, logger: logger}
}

// ValidateAmount accepts strictly positive amounts with at most two decimals.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// Deposit credits a wallet. Anyone may deposit into any wallet.
func (l *Ledger) Deposit(ctx context.Context, walletID int64, amount decimal.Decimal) (wallet.Wallet, error) {
	if err := ValidateAmount(amount); err != nil {
		return wallet.Wallet{}, err
	}
	if amount.GreaterThan(l.cfg.MaxDeposit) {
		return wallet.Wallet{}, fmt.Errorf("%w: individual deposits must not exceed %s", ErrLimitExceeded, l.cfg.MaxDeposit)
	}

	txCtx, cancel := context.WithTimeout(ctx, l.cfg.TxTimeout)
	defer cancel()

	w, err := l.repo.Get(txCtx, walletID)
	if err != nil {
		return wallet.Wallet{}, l.fail(ctx, "deposit", walletID, err)
	}

	err = l.repo.RunInTx(txCtx, func(tx wallet.Tx) error {
		return credit(txCtx, tx, walletID, amount, wallet.ErrNotFound)
	})
	if err != nil {
		return wallet.Wallet{}, l.fail(ctx, "deposit", walletID, err)
	}

	l.logger.Info("deposit committed", slog.Int64("wallet_id", walletID), slog.String("amount", amount.StringFixed(2)))
	settleCtx, done := settleContext(ctx)
	defer done()
	return l.reload(settleCtx, w, amount), nil
}

// Withdraw debits a wallet owned by callerID.
func (l *Ledger) Withdraw(ctx context.Context, callerID, walletID int64, amount decimal.Decimal) (wallet.Wallet, error) {
	if err := ValidateAmount(amount); err != nil {
		return wallet.Wallet{}, err
	}

	txCtx, cancel := context.WithTimeout(ctx, l.cfg.TxTimeout)
	defer cancel()

	w, err := l.repo.Get(txCtx, walletID)
	if err != nil {
		return wallet.Wallet{}, l.fail(ctx, "withdraw", walletID, err)
	}
	if w.OwnerID != callerID {
		return wallet.Wallet{}, ErrForbidden
	}
	if w.Balance.LessThan(amount) {
		return wallet.Wallet{}, ErrInsufficientFunds
	}
	if amount.GreaterThan(l.cfg.MaxWithdrawal) {
		return wallet.Wallet{}, fmt.Errorf("%w: individual withdrawals must not exceed %s", ErrLimitExceeded, l.cfg.MaxWithdrawal)
	}

	err = l.repo.RunInTx(txCtx, func(tx wallet.Tx) error {
		return debit(txCtx, tx, walletID, amount)
	})
	if err != nil {
		return wallet.Wallet{}, l.fail(ctx, "withdraw", walletID, err)
	}

	l.logger.Info("withdrawal committed", slog.Int64("wallet_id", walletID), slog.String("amount", amount.StringFixed(2)))
	settleCtx, done := settleContext(ctx)
	defer done()
	return l.reload(settleCtx, w, amount.Neg()), nil
}

// Transfer moves amount from a wallet owned by callerID to another wallet.
// Both legs commit together or not at all. The returned wallet is the source.
func (l *Ledger) Transfer(ctx context.Context, callerID, fromID, toID int64, amount decimal.Decimal) (wallet.Wallet, error) {
	if err := ValidateAmount(amount); err != nil {
		return wallet.Wallet{}, err
	}

	txCtx, cancel := context.WithTimeout(ctx, l.cfg.TxTimeout)
	defer cancel()

	from, err := l.repo.Get(txCtx, fromID)
	if err != nil {
		return wallet.Wallet{}, l.fail(ctx, "transfer", fromID, err)
	}
	if from.OwnerID != callerID {
		return wallet.Wallet{}, ErrForbidden
	}
	if from.Balance.LessThan(amount) {
		return wallet.Wallet{}, ErrInsufficientFunds
	}
	if amount.GreaterThan(l.cfg.MaxTransfer) {
		return wallet.Wallet{}, fmt.Errorf("%w: individual transfers must not exceed %s", ErrLimitExceeded, l.cfg.MaxTransfer)
	}
	to, err := l.repo.Get(txCtx, toID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return wallet.Wallet{}, ErrInvalidRecipient
		}
		return wallet.Wallet{}, l.fail(ctx, "transfer", fromID, err)
	}

	err = l.repo.RunInTx(txCtx, func(tx wallet.Tx) error {
		// Touch rows in ascending id order so opposite transfers between the
		// same pair of wallets cannot deadlock.
		if toID < fromID {
			if err := credit(txCtx, tx, toID, amount, ErrInvalidRecipient); err != nil {
				return err
			}
			return debit(txCtx, tx, fromID, amount)
		}
		if err := debit(txCtx, tx, fromID, amount); err != nil {
			return err
		}
		return credit(txCtx, tx, toID, amount, ErrInvalidRecipient)
	})
	if err != nil {
		return wallet.Wallet{}, l.fail(ctx, "transfer", fromID, err)
	}

	l.logger.Info("transfer committed",
		slog.Int64("from_wallet_id", fromID),
		slog.Int64("to_wallet_id", toID),
		slog.String("amount", amount.StringFixed(2)),
	)
	settleCtx, done := settleContext(ctx)
	defer done()
	l.notifyParties(settleCtx, from, to, amount)
	return l.reload(settleCtx, from, amount.Neg()), nil
}

func debit(ctx context.Context, tx wallet.Tx, id int64, amount decimal.Decimal) error {
	n, err := tx.Decrement(ctx, id, amount)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func credit(ctx context.Context, tx wallet.Tx, id int64, amount decimal.Decimal, missing error) error {
	n, err := tx.Increment(ctx, id, amount)
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

// notifyParties tells both owners about a committed transfer. Delivery
// failures are logged and never fail the transfer.
func (l *Ledger) notifyParties(ctx context.Context, from, to wallet.Wallet, amount decimal.Decimal) {
	if l.notifier == nil {
		return
	}
	sum := amount.StringFixed(2)
	messages := []notification.Message{
		{
			Kind:     notification.KindTransferSent,
			UserID:   from.OwnerID,
			WalletID: from.ID,
			Body:     fmt.Sprintf("wallet %d sent %s to wallet %d", from.ID, sum, to.ID),
		},
		{
			Kind:     notification.KindTransferReceived,
			UserID:   to.OwnerID,
			WalletID: to.ID,
			Body:     fmt.Sprintf("wallet %d received %s from wallet %d", to.ID, sum, from.ID),
		},
	}
	for _, msg := range messages {
		if err := l.notifier.Send(ctx, msg); err != nil {
			l.logger.Warn("transfer notification failed",
				slog.String("kind", string(msg.Kind)),
				slog.Int64("wallet_id", msg.WalletID),
				slog.Any("error", err),
			)
		}
	}
}

// settleContext is used once a transaction has committed. It ignores the
// caller's cancellation and the transaction deadline so nothing after the
// commit can turn a committed operation into a failure.
func settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
}

// reload re-reads a wallet after its transaction committed. If the read
// fails the money has still moved, so the pre-commit snapshot shifted by
// delta is returned instead of an error.
func (l *Ledger) reload(ctx context.Context, before wallet.Wallet, delta decimal.Decimal) wallet.Wallet {
	w, err := l.repo.Get(ctx, before.ID)
	if err == nil {
		return w
	}
	l.logger.WarnContext(ctx, "reload after commit failed",
		slog.Int64("wallet_id", before.ID),
		slog.Any("error", err),
	)
	before.Balance = before.Balance.Add(delta)
	return before
}

// fail passes caller-facing errors through and folds everything else into
// ErrTransactionFailed.
func (l *Ledger) fail(ctx context.Context, op string, walletID int64, err error) error {
	switch {
	case errors.Is(err, wallet.ErrNotFound),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidRecipient):
		return err
	}
	l.logger.ErrorContext(ctx, "ledger operation failed",
		slog.String("op", op),
		slog.Int64("wallet_id", walletID),
		slog.Any("error", err),
	)
	return fmt.Errorf("%w: %s wallet %d: %v", ErrTransactionFailed, op, walletID, err)
}
