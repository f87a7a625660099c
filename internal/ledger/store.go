// Package ledger implements the account ledger core: durable storage of
// accounts and their append-only transaction trail, with every balance
// mutation applied as a single all-or-nothing database transaction.
package ledger

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/Codebywali/Banking-Mangement-System/internal/models"
	"github.com/Codebywali/Banking-Mangement-System/internal/pinhash"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// account numbers are 10 decimal digits; with that space a collision
// within the retry budget is practically unreachable.
const (
	accountNumberDigits = 10
	maxNumberAttempts   = 10
)

// Config carries the store settings.
type Config struct {
	// Path is the SQLite database file.
	Path string

	// Hasher computes and verifies PIN digests.
	Hasher pinhash.Hasher

	// AllowFundedClose permits deleting an account whose balance is not
	// zero. Off by default: closing requires a zero balance.
	AllowFundedClose bool
}

// Store handles all SQLite database operations.
type Store struct {
	db               *sql.DB
	hasher           pinhash.Hasher
	allowFundedClose bool
}

// Open opens (creating if needed) the database file and ensures the schema.
func Open(cfg Config) (*Store, error) {
	if cfg.Hasher == nil {
		cfg.Hasher = pinhash.SHA256{}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", cfg.Path, err)
	}

	// single-user application: one connection keeps the single-writer
	// shape explicit and avoids SQLITE_BUSY between handles.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, hasher: cfg.Hasher, allowFundedClose: cfg.AllowFundedClose}
	if err := s.initSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize the database schema
func (s *Store) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS accounts (
		account_number TEXT PRIMARY KEY,
		owner_name     TEXT NOT NULL,
		contact_info   TEXT NOT NULL DEFAULT '',
		pin_hash       TEXT NOT NULL,
		balance        INTEGER NOT NULL DEFAULT 0,
		created_at     INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		reference      TEXT NOT NULL,
		account_number TEXT NOT NULL REFERENCES accounts(account_number),
		counterparty   TEXT,
		kind           TEXT NOT NULL,
		amount         INTEGER NOT NULL,
		note           TEXT,
		created_at     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_account
		ON transactions(account_number, created_at);`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateAccount opens a new account. A non-zero opening balance is
// recorded as a deposit transaction so the audit trail alone always
// reconstructs the balance.
func (s *Store) CreateAccount(ctx context.Context, owner, contact, pin string, openingBalance int64) (acc *models.Account, err error) {
	if openingBalance < 0 {
		return nil, fmt.Errorf("opening balance %d: %w", openingBalance, ErrInvalidAmount)
	}

	pinHash, err := s.hasher.Hash(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	number, err := s.pickAccountNumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (account_number, owner_name, contact_info, pin_hash, balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		number, owner, contact, pinHash, openingBalance, now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if openingBalance > 0 {
		if err = insertTransaction(ctx, tx, number, "", models.Deposit, openingBalance, "Initial deposit", now); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Account{
		Number:      number,
		OwnerName:   owner,
		ContactInfo: contact,
		PINHash:     pinHash,
		Balance:     openingBalance,
		CreatedAt:   now,
	}, nil
}

// GetAccount retrieves an account by number.
func (s *Store) GetAccount(ctx context.Context, number string) (*models.Account, error) {
	var (
		acc models.Account
		ns  int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT account_number, owner_name, contact_info, pin_hash, balance, created_at
		 FROM accounts WHERE account_number = ?`, number,
	).Scan(&acc.Number, &acc.OwnerName, &acc.ContactInfo, &acc.PINHash, &acc.Balance, &ns)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account %s: %w", number, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account: %w: %v", ErrStorageUnavailable, err)
	}
	acc.CreatedAt = time.Unix(0, ns).UTC()
	return &acc, nil
}

// SearchAccounts lists accounts whose number or owner name contains the
// query, newest first. An empty query lists every account.
func (s *Store) SearchAccounts(ctx context.Context, query string) ([]*models.Account, error) {
	like := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT account_number, owner_name, contact_info, pin_hash, balance, created_at
		 FROM accounts
		 WHERE account_number LIKE ? OR owner_name LIKE ?
		 ORDER BY created_at DESC, account_number`, like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var (
			acc models.Account
			ns  int64
		)
		if err := rows.Scan(&acc.Number, &acc.OwnerName, &acc.ContactInfo, &acc.PINHash, &acc.Balance, &ns); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w: %v", ErrStorageUnavailable, err)
		}
		acc.CreatedAt = time.Unix(0, ns).UTC()
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w: %v", ErrStorageUnavailable, err)
	}
	return accounts, nil
}

// DeleteAccount closes an account and removes its transaction history.
// Unless the store was opened with AllowFundedClose, the balance must be
// zero.
func (s *Store) DeleteAccount(ctx context.Context, number string) (err error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	balance, err := accountBalance(ctx, tx, number)
	if err != nil {
		return err
	}
	if balance != 0 && !s.allowFundedClose {
		return fmt.Errorf("account %s: %w", number, ErrNonZeroBalance)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM transactions WHERE account_number = ?`, number); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM accounts WHERE account_number = ?`, number); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Authenticate checks a PIN against the stored digest. The plaintext PIN
// is never stored, logged or returned.
func (s *Store) Authenticate(ctx context.Context, number, pin string) (bool, error) {
	acc, err := s.GetAccount(ctx, number)
	if err != nil {
		return false, err
	}
	return s.hasher.Verify(pin, acc.PINHash), nil
}

// Deposit increments the balance and appends a deposit transaction,
// both in one database transaction. Returns the new balance.
func (s *Store) Deposit(ctx context.Context, number string, amount int64, note string) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deposit %d: %w", amount, ErrInvalidAmount)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	balance, err := accountBalance(ctx, tx, number)
	if err != nil {
		return 0, err
	}
	newBalance = balance + amount

	if err = updateBalance(ctx, tx, number, newBalance); err != nil {
		return 0, err
	}
	if err = insertTransaction(ctx, tx, number, "", models.Deposit, amount, note, time.Now().UTC()); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return newBalance, nil
}

// Withdraw decrements the balance and appends a withdrawal transaction.
// Fails without any state change when the amount exceeds the balance.
func (s *Store) Withdraw(ctx context.Context, number string, amount int64, note string) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, fmt.Errorf("withdraw %d: %w", amount, ErrInvalidAmount)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	balance, err := accountBalance(ctx, tx, number)
	if err != nil {
		return 0, err
	}
	if amount > balance {
		return 0, fmt.Errorf("withdraw %d from account %s: %w", amount, number, ErrInsufficientFunds)
	}
	newBalance = balance - amount

	if err = updateBalance(ctx, tx, number, newBalance); err != nil {
		return 0, err
	}
	if err = insertTransaction(ctx, tx, number, "", models.Withdrawal, amount, note, time.Now().UTC()); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return newBalance, nil
}

// Transfer atomically moves amount from src to dst, appending one
// transfer_out row on src and one transfer_in row on dst. The two rows
// share a reference and timestamp so they read as one logical transfer.
// Any validation failure leaves both accounts untouched.
func (s *Store) Transfer(ctx context.Context, src, dst string, amount int64, note string) (srcBalance, dstBalance int64, err error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("transfer %d: %w", amount, ErrInvalidAmount)
	}
	if src == dst {
		return 0, 0, fmt.Errorf("transfer from %s to itself: %w", src, ErrSameAccount)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	srcBal, err := accountBalance(ctx, tx, src)
	if err != nil {
		return 0, 0, err
	}
	dstBal, err := accountBalance(ctx, tx, dst)
	if err != nil {
		return 0, 0, err
	}
	if amount > srcBal {
		return 0, 0, fmt.Errorf("transfer %d from account %s: %w", amount, src, ErrInsufficientFunds)
	}

	srcBalance = srcBal - amount
	dstBalance = dstBal + amount

	if err = updateBalance(ctx, tx, src, srcBalance); err != nil {
		return 0, 0, err
	}
	if err = updateBalance(ctx, tx, dst, dstBalance); err != nil {
		return 0, 0, err
	}

	now := time.Now().UTC()
	reference := uuid.New().String()
	if err = insertTransactionRef(ctx, tx, reference, src, dst, models.TransferOut, amount, note, now); err != nil {
		return 0, 0, err
	}
	if err = insertTransactionRef(ctx, tx, reference, dst, src, models.TransferIn, amount, note, now); err != nil {
		return 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return srcBalance, dstBalance, nil
}

// Transactions lists an account's history, chronological by default.
// limit <= 0 means no limit.
func (s *Store) Transactions(ctx context.Context, number string, limit int, newestFirst bool) ([]*models.Transaction, error) {
	// existence check keeps "unknown account" distinct from "no history"
	if _, err := s.GetAccount(ctx, number); err != nil {
		return nil, err
	}

	order := "ASC"
	if newestFirst {
		order = "DESC"
	}
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}

	query := fmt.Sprintf(
		`SELECT id, reference, account_number, counterparty, kind, amount, note, created_at
		 FROM transactions WHERE account_number = ?
		 ORDER BY created_at %s, id %s LIMIT ?`, order, order)

	rows, err := s.db.QueryContext(ctx, query, number, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w: %v", ErrStorageUnavailable, err)
	}
	return txs, nil
}

// GetTransaction retrieves a single transaction by ID.
func (s *Store) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, reference, account_number, counterparty, kind, amount, note, created_at
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return t, err
}

// ReconcileBalance returns the stored balance next to the balance
// derived from the transaction log. The two must always agree:
// balance == opening deposit + sum(in) - sum(out).
func (s *Store) ReconcileBalance(ctx context.Context, number string) (stored, derived int64, err error) {
	acc, err := s.GetAccount(ctx, number)
	if err != nil {
		return 0, 0, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN kind IN (?, ?) THEN amount ELSE -amount END), 0)
		 FROM transactions WHERE account_number = ?`,
		string(models.Deposit), string(models.TransferIn), number,
	).Scan(&derived)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to derive balance: %w: %v", ErrStorageUnavailable, err)
	}
	return acc.Balance, derived, nil
}

// begin starts a database transaction, mapping driver failures to
// ErrStorageUnavailable.
func (s *Store) begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w: %v", ErrStorageUnavailable, err)
	}
	return tx, nil
}

// pickAccountNumber draws random 10-digit numbers until one is free.
func (s *Store) pickAccountNumber(ctx context.Context, tx *sql.Tx) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate, err := randomAccountNumber()
		if err != nil {
			return "", err
		}
		var n int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM accounts WHERE account_number = ?`, candidate).Scan(&n)
		if err != nil {
			return "", fmt.Errorf("failed to check account number: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted %d attempts: %w", maxNumberAttempts, ErrDuplicateAccount)
}

func randomAccountNumber() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(accountNumberDigits), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	return fmt.Sprintf("%0*d", accountNumberDigits, n), nil
}

func accountBalance(ctx context.Context, tx *sql.Tx, number string) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE account_number = ?`, number).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("account %s: %w", number, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to get balance: %w: %v", ErrStorageUnavailable, err)
	}
	return balance, nil
}

func updateBalance(ctx context.Context, tx *sql.Tx, number string, balance int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = ? WHERE account_number = ?`, balance, number)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, number, counterparty string, kind models.TransactionKind, amount int64, note string, at time.Time) error {
	return insertTransactionRef(ctx, tx, uuid.New().String(), number, counterparty, kind, amount, note, at)
}

func insertTransactionRef(ctx context.Context, tx *sql.Tx, reference, number, counterparty string, kind models.TransactionKind, amount int64, note string, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (reference, account_number, counterparty, kind, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reference, number,
		sql.NullString{String: counterparty, Valid: counterparty != ""},
		string(kind), amount,
		sql.NullString{String: note, Valid: note != ""},
		at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		t            models.Transaction
		counterparty sql.NullString
		note         sql.NullString
		kind         string
		ns           int64
	)
	err := row.Scan(&t.ID, &t.Reference, &t.AccountNo, &counterparty, &kind, &t.Amount, &note, &ns)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w: %v", ErrStorageUnavailable, err)
	}
	t.Counterparty = counterparty.String
	t.Note = note.String
	t.Kind = models.TransactionKind(kind)
	t.CreatedAt = time.Unix(0, ns).UTC()
	return &t, nil
}
