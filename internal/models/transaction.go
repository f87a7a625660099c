package models

import (
	"time"
)

type TransactionKind string

const (
	// Deposit represents money paid into an account
	Deposit TransactionKind = "deposit"

	// Withdrawal represents money taken out of an account
	Withdrawal TransactionKind = "withdrawal"

	// TransferOut represents the debit side of a transfer
	TransferOut TransactionKind = "transfer_out"

	// TransferIn represents the credit side of a transfer
	TransferIn TransactionKind = "transfer_in"
)

// Transaction is one immutable row of the audit trail. Rows are only
// ever appended; the current balance of an account is derivable from
// its transaction history.
type Transaction struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	AccountNo    string          `json:"account_number"`
	Counterparty string          `json:"counterparty,omitempty"`
	Kind         TransactionKind `json:"kind"`
	Amount       int64           `json:"amount"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Inbound reports whether the transaction increases the account balance.
func (t *Transaction) Inbound() bool {
	return t.Kind == Deposit || t.Kind == TransferIn
}
