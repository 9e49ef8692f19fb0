package ledger

import "errors"

var (
	// ErrInvalidAmount rejects amounts that are not strictly positive or carry
	// more than two fractional digits.
	ErrInvalidAmount = errors.New("amount must be a positive number with at most two decimal places")

	// ErrForbidden occurs when the caller does not own the wallet being debited.
	ErrForbidden = errors.New("you do not have permission to operate this wallet")

	// ErrInsufficientFunds occurs when the wallet balance cannot cover the debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLimitExceeded occurs when an amount is above the per-operation ceiling.
	ErrLimitExceeded = errors.New("amount exceeds the allowed limit")

	// ErrInvalidRecipient occurs when the transfer destination does not exist.
	ErrInvalidRecipient = errors.New("receiving wallet does not exist, kindly confirm provided details")

	// ErrTransactionFailed wraps store, connectivity and timeout failures. Its
	// details are logged but never returned to API callers.
	ErrTransactionFailed = errors.New("transaction unsuccessful")
)
