// Package service is the operation facade between the presentation layer
// and the ledger store: it validates caller-supplied primitive input,
// delegates to the store, and normalizes every failure into a uniform
// (code, message) result.
package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strings"

	"github.com/Codebywali/Banking-Mangement-System/internal/ledger"
	"github.com/Codebywali/Banking-Mangement-System/internal/models"
	"github.com/shopspring/decimal"
)

// minorUnitExponent is the number of decimal places of the minor
// currency unit (cents).
const minorUnitExponent = 2

var accountNumberRe = regexp.MustCompile(`^[0-9]{10}$`)

// BankService exposes the banking operations consumed by the
// presentation layer.
type BankService struct {
	store *ledger.Store
}

// NewBankService creates a facade over the given store.
func NewBankService(store *ledger.Store) *BankService {
	return &BankService{store: store}
}

// ParseAmount converts a user-supplied decimal string ("25", "19.99")
// into minor currency units, rejecting non-numeric, non-positive or
// sub-cent input before the store is ever called.
func ParseAmount(s string) (int64, error) {
	return parseAmount(s, false)
}

func parseAmount(s string, allowZero bool) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fail(CodeInvalidAmount, fmt.Sprintf("amount %q is not a number", s))
	}
	if d.IsNegative() || (d.IsZero() && !allowZero) {
		return 0, fail(CodeInvalidAmount, fmt.Sprintf("amount %q must be positive", s))
	}
	minor := d.Shift(minorUnitExponent)
	if !minor.IsInteger() {
		return 0, fail(CodeInvalidAmount, fmt.Sprintf("amount %q has more than %d decimal places", s, minorUnitExponent))
	}
	if minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fail(CodeInvalidAmount, fmt.Sprintf("amount %q is out of range", s))
	}
	return minor.IntPart(), nil
}

// CreateAccount opens a new account. The opening amount may be empty,
// meaning zero.
func (s *BankService) CreateAccount(ctx context.Context, owner, contact, pin, openingAmount string) (*models.Account, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, fail(CodeInvalidInput, "owner name is required")
	}
	if err := validatePIN(pin); err != nil {
		return nil, err
	}

	var opening int64
	if strings.TrimSpace(openingAmount) != "" {
		var err error
		opening, err = parseAmount(openingAmount, true)
		if err != nil {
			return nil, err
		}
	}

	acc, err := s.store.CreateAccount(ctx, owner, strings.TrimSpace(contact), pin, opening)
	if err != nil {
		return nil, asFailure(err)
	}
	return acc, nil
}

// QuickCreateAccount opens an account with generated placeholder
// metadata and a random 4-digit PIN. Same invariants as CreateAccount;
// the generated PIN is returned once so the caller can show it.
func (s *BankService) QuickCreateAccount(ctx context.Context) (*models.Account, string, error) {
	name := "QuickUser_" + randomLetters(5)
	pin := fmt.Sprintf("%04d", rand.Intn(10000))

	acc, err := s.store.CreateAccount(ctx, name, "", pin, 0)
	if err != nil {
		return nil, "", asFailure(err)
	}
	return acc, pin, nil
}

// GetAccount fetches one account. Read-only.
func (s *BankService) GetAccount(ctx context.Context, number string) (*models.Account, error) {
	if err := validateAccountNumber(number); err != nil {
		return nil, err
	}
	acc, err := s.store.GetAccount(ctx, number)
	if err != nil {
		return nil, asFailure(err)
	}
	return acc, nil
}

// SearchAccounts lists accounts matching the query, newest first.
func (s *BankService) SearchAccounts(ctx context.Context, query string) ([]*models.Account, error) {
	accounts, err := s.store.SearchAccounts(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, asFailure(err)
	}
	return accounts, nil
}

// DeleteAccount closes an account.
func (s *BankService) DeleteAccount(ctx context.Context, number string) error {
	if err := validateAccountNumber(number); err != nil {
		return err
	}
	if err := s.store.DeleteAccount(ctx, number); err != nil {
		return asFailure(err)
	}
	return nil
}

// Authenticate verifies the PIN for an account. A mismatch and an
// unknown account both come back as an authentication failure so the
// caller cannot probe which account numbers exist.
func (s *BankService) Authenticate(ctx context.Context, number, pin string) error {
	if err := validateAccountNumber(number); err != nil {
		return err
	}
	ok, err := s.store.Authenticate(ctx, number, pin)
	if err != nil {
		if f := asFailure(err); f.Code != CodeNotFound {
			return f
		}
		return fail(CodeAuthentication, ledger.ErrAuthentication.Error())
	}
	if !ok {
		return fail(CodeAuthentication, ledger.ErrAuthentication.Error())
	}
	return nil
}

// Deposit parses the amount and credits the account. Returns the new
// balance in minor units.
func (s *BankService) Deposit(ctx context.Context, number, amount, note string) (int64, error) {
	if err := validateAccountNumber(number); err != nil {
		return 0, err
	}
	minor, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	balance, err := s.store.Deposit(ctx, number, minor, note)
	if err != nil {
		return 0, asFailure(err)
	}
	return balance, nil
}

// Withdraw parses the amount and debits the account. Returns the new
// balance in minor units.
func (s *BankService) Withdraw(ctx context.Context, number, amount, note string) (int64, error) {
	if err := validateAccountNumber(number); err != nil {
		return 0, err
	}
	minor, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	balance, err := s.store.Withdraw(ctx, number, minor, note)
	if err != nil {
		return 0, asFailure(err)
	}
	return balance, nil
}

// Transfer moves an amount between two distinct accounts. The src != dst
// check also lives in the store; checking here first gives the caller a
// better error before any transaction starts.
func (s *BankService) Transfer(ctx context.Context, src, dst, amount, note string) (srcBalance, dstBalance int64, err error) {
	if err := validateAccountNumber(src); err != nil {
		return 0, 0, err
	}
	if err := validateAccountNumber(dst); err != nil {
		return 0, 0, err
	}
	if src == dst {
		return 0, 0, fail(CodeSameAccount, ledger.ErrSameAccount.Error())
	}
	minor, err := ParseAmount(amount)
	if err != nil {
		return 0, 0, err
	}
	srcBalance, dstBalance, err = s.store.Transfer(ctx, src, dst, minor, note)
	if err != nil {
		return 0, 0, asFailure(err)
	}
	return srcBalance, dstBalance, nil
}

// Transactions lists an account's history. Read-only.
func (s *BankService) Transactions(ctx context.Context, number string, limit int, newestFirst bool) ([]*models.Transaction, error) {
	if err := validateAccountNumber(number); err != nil {
		return nil, err
	}
	txs, err := s.store.Transactions(ctx, number, limit, newestFirst)
	if err != nil {
		return nil, asFailure(err)
	}
	return txs, nil
}

// Transaction fetches one transaction by ID.
func (s *BankService) Transaction(ctx context.Context, id int64) (*models.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, asFailure(err)
	}
	return t, nil
}

// ExportHistory returns the full history of an account as row tuples in
// the fixed export column order. It performs no formatting beyond
// stringifying fields; the export collaborator does the rest.
func (s *BankService) ExportHistory(ctx context.Context, number string) ([][]string, error) {
	txs, err := s.Transactions(ctx, number, 0, false)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.AccountNo,
			string(t.Kind),
			AmountString(t.Amount),
			t.Counterparty,
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.Note,
		})
	}
	return rows, nil
}

// Reconcile re-derives the balance from the transaction log and returns
// it next to the stored balance.
func (s *BankService) Reconcile(ctx context.Context, number string) (stored, derived int64, err error) {
	if err := validateAccountNumber(number); err != nil {
		return 0, 0, err
	}
	stored, derived, err = s.store.ReconcileBalance(ctx, number)
	if err != nil {
		return 0, 0, asFailure(err)
	}
	return stored, derived, nil
}

// AmountString renders minor units as a plain decimal string ("19.99").
func AmountString(minor int64) string {
	return decimal.NewFromInt(minor).Shift(-minorUnitExponent).StringFixed(minorUnitExponent)
}

func validateAccountNumber(number string) error {
	if !accountNumberRe.MatchString(number) {
		return fail(CodeInvalidInput, fmt.Sprintf("account number %q must be 10 digits", number))
	}
	return nil
}

// validatePIN enforces the 4-8 digit PIN policy at the boundary.
func validatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return fail(CodeInvalidInput, "PIN must be 4-8 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return fail(CodeInvalidInput, "PIN must be 4-8 digits")
		}
	}
	return nil
}

func randomLetters(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
