package ledger

import "errors"

// Domain errors returned by the store. The service layer maps these to
// uniform (code, message) results for the presentation layer.
var (
	// ErrNotFound means the account or transaction does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAccount means account number generation kept colliding
	// with existing accounts until the retry budget ran out.
	ErrDuplicateAccount = errors.New("account number collision")

	// ErrInvalidAmount means the amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds means a withdrawal or transfer exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccount means transfer source and destination are the same.
	ErrSameAccount = errors.New("source and destination accounts are the same")

	// ErrNonZeroBalance means deletion was attempted on a funded account.
	ErrNonZeroBalance = errors.New("account balance is not zero")

	// ErrAuthentication means the PIN did not match the stored digest.
	ErrAuthentication = errors.New("invalid account or PIN")

	// ErrStorageUnavailable means the underlying database failed. It
	// aborts the in-flight operation only, never the process.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
