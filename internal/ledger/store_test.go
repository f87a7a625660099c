package ledger

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Codebywali/Banking-Mangement-System/internal/models"
	"github.com/Codebywali/Banking-Mangement-System/internal/pinhash"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{
		Path:   filepath.Join(t.TempDir(), "bank.db"),
		Hasher: pinhash.SHA256{},
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAccountRecordsOpeningDeposit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, err := s.CreateAccount(ctx, "Alice", "alice@example.com", "1234", 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(acc.Number) != 10 {
		t.Errorf("expected 10-digit account number, got %q", acc.Number)
	}
	if acc.Balance != 10000 {
		t.Errorf("expected balance 10000, got %d", acc.Balance)
	}

	txs, err := s.Transactions(ctx, acc.Number, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 opening transaction, got %d", len(txs))
	}
	if txs[0].Kind != models.Deposit || txs[0].Amount != 10000 || txs[0].Note != "Initial deposit" {
		t.Errorf("unexpected opening transaction: %+v", txs[0])
	}
}

func TestCreateAccountZeroOpeningHasNoTransaction(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, err := s.CreateAccount(ctx, "Bob", "", "4321", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txs, err := s.Transactions(ctx, acc.Number, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected no transactions, got %d", len(txs))
	}
}

func TestCreateAccountNegativeOpening(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.CreateAccount(ctx, "Eve", "", "1234", -1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDepositUpdatesBalanceAndLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 10000)

	balance, err := s.Deposit(ctx, acc.Number, 5000, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 15000 {
		t.Errorf("expected balance 15000, got %d", balance)
	}

	txs, _ := s.Transactions(ctx, acc.Number, 0, false)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	last := txs[len(txs)-1]
	if last.Kind != models.Deposit || last.Amount != 5000 {
		t.Errorf("unexpected deposit transaction: %+v", last)
	}
	if last.Reference == "" {
		t.Error("deposit transaction missing reference")
	}
}

func TestDepositRejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 0)

	for _, amount := range []int64{0, -5000} {
		if _, err := s.Deposit(ctx, acc.Number, amount, ""); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("deposit %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestWithdrawInsufficientFundsLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 15000)

	_, err := s.Withdraw(ctx, acc.Number, 20000, "")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	got, _ := s.GetAccount(ctx, acc.Number)
	if got.Balance != 15000 {
		t.Errorf("balance changed on failed withdrawal: %d", got.Balance)
	}
	txs, _ := s.Transactions(ctx, acc.Number, 0, false)
	if len(txs) != 1 {
		t.Errorf("expected only the opening transaction, got %d", len(txs))
	}
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	src, _ := s.CreateAccount(ctx, "Alice", "", "1234", 15000)
	dst, _ := s.CreateAccount(ctx, "Bob", "", "4321", 0)

	srcBalance, dstBalance, err := s.Transfer(ctx, src.Number, dst.Number, 3000, "rent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srcBalance != 12000 || dstBalance != 3000 {
		t.Errorf("expected balances 12000/3000, got %d/%d", srcBalance, dstBalance)
	}

	srcTxs, _ := s.Transactions(ctx, src.Number, 0, false)
	dstTxs, _ := s.Transactions(ctx, dst.Number, 0, false)

	out := srcTxs[len(srcTxs)-1]
	if out.Kind != models.TransferOut || out.Amount != 3000 || out.Counterparty != dst.Number {
		t.Errorf("unexpected transfer_out row: %+v", out)
	}
	if len(dstTxs) != 1 {
		t.Fatalf("expected 1 transaction on destination, got %d", len(dstTxs))
	}
	in := dstTxs[0]
	if in.Kind != models.TransferIn || in.Amount != 3000 || in.Counterparty != src.Number {
		t.Errorf("unexpected transfer_in row: %+v", in)
	}
	// both sides belong to one logical transfer
	if out.Reference != in.Reference {
		t.Errorf("transfer rows have different references: %s vs %s", out.Reference, in.Reference)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("transfer rows have different timestamps: %s vs %s", out.CreatedAt, in.CreatedAt)
	}
}

func TestTransferFailuresAreAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	src, _ := s.CreateAccount(ctx, "Alice", "", "1234", 15000)
	dst, _ := s.CreateAccount(ctx, "Bob", "", "4321", 500)

	cases := []struct {
		name    string
		src     string
		dst     string
		amount  int64
		wantErr error
	}{
		{"insufficient funds", src.Number, dst.Number, 20000, ErrInsufficientFunds},
		{"same account", src.Number, src.Number, 1000, ErrSameAccount},
		{"unknown destination", src.Number, "0000000000", 1000, ErrNotFound},
		{"unknown source", "0000000000", dst.Number, 1000, ErrNotFound},
		{"non-positive amount", src.Number, dst.Number, 0, ErrInvalidAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Transfer(ctx, tc.src, tc.dst, tc.amount, "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			a, _ := s.GetAccount(ctx, src.Number)
			b, _ := s.GetAccount(ctx, dst.Number)
			if a.Balance != 15000 || b.Balance != 500 {
				t.Errorf("balances changed on failed transfer: %d/%d", a.Balance, b.Balance)
			}
			aTxs, _ := s.Transactions(ctx, src.Number, 0, false)
			bTxs, _ := s.Transactions(ctx, dst.Number, 0, false)
			if len(aTxs) != 1 || len(bTxs) != 1 {
				t.Errorf("transaction rows created on failed transfer: %d/%d", len(aTxs), len(bTxs))
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 0)

	ok, err := s.Authenticate(ctx, acc.Number, "1234")
	if err != nil || !ok {
		t.Errorf("expected successful authentication, got ok=%v err=%v", ok, err)
	}
	ok, err = s.Authenticate(ctx, acc.Number, "9999")
	if err != nil || ok {
		t.Errorf("expected failed authentication, got ok=%v err=%v", ok, err)
	}
	if _, err := s.Authenticate(ctx, "0000000000", "1234"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	got, _ := s.GetAccount(ctx, acc.Number)
	if got.PINHash == "1234" {
		t.Error("plaintext PIN stored as hash")
	}
}

func TestDeleteAccountRequiresZeroBalance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	funded, _ := s.CreateAccount(ctx, "Alice", "", "1234", 100)
	if err := s.DeleteAccount(ctx, funded.Number); !errors.Is(err, ErrNonZeroBalance) {
		t.Fatalf("expected ErrNonZeroBalance, got %v", err)
	}
	if _, err := s.GetAccount(ctx, funded.Number); err != nil {
		t.Errorf("funded account should still exist: %v", err)
	}

	empty, _ := s.CreateAccount(ctx, "Bob", "", "4321", 0)
	if err := s.DeleteAccount(ctx, empty.Number); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetAccount(ctx, empty.Number); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after deletion, got %v", err)
	}
	if err := s.DeleteAccount(ctx, empty.Number); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDeleteAccountFundedClosePolicy(t *testing.T) {
	ctx := context.Background()
	s, err := Open(Config{
		Path:             filepath.Join(t.TempDir(), "bank.db"),
		AllowFundedClose: true,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 100)
	if err := s.DeleteAccount(ctx, acc.Number); err != nil {
		t.Fatalf("funded close should be allowed by policy: %v", err)
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 10000)
	_, _ = s.Deposit(ctx, acc.Number, 500, "")

	first, err := s.GetAccount(ctx, acc.Number)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := s.GetAccount(ctx, acc.Number)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("GetAccount not idempotent: %+v vs %+v", first, second)
	}

	txs1, _ := s.Transactions(ctx, acc.Number, 0, false)
	txs2, _ := s.Transactions(ctx, acc.Number, 0, false)
	if !reflect.DeepEqual(txs1, txs2) {
		t.Error("Transactions not idempotent")
	}
}

func TestTransactionsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 0)
	for i := 0; i < 5; i++ {
		if _, err := s.Deposit(ctx, acc.Number, int64(100*(i+1)), ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	asc, _ := s.Transactions(ctx, acc.Number, 0, false)
	for i := 1; i < len(asc); i++ {
		if asc[i].ID < asc[i-1].ID {
			t.Fatalf("ascending order violated at %d", i)
		}
	}

	desc, _ := s.Transactions(ctx, acc.Number, 2, true)
	if len(desc) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(desc))
	}
	if desc[0].Amount != 500 || desc[1].Amount != 400 {
		t.Errorf("expected newest first (500, 400), got (%d, %d)", desc[0].Amount, desc[1].Amount)
	}

	if _, err := s.Transactions(ctx, "0000000000", 0, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown account, got %v", err)
	}
}

func TestGetTransaction(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	acc, _ := s.CreateAccount(ctx, "Alice", "", "1234", 2500)
	txs, _ := s.Transactions(ctx, acc.Number, 0, false)

	got, err := s.GetTransaction(ctx, txs[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, txs[0]) {
		t.Errorf("GetTransaction mismatch: %+v vs %+v", got, txs[0])
	}

	if _, err := s.GetTransaction(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestRandomizedReconcile runs a random sequence of deposits, withdrawals
// and transfers and checks that the stored balance always equals the
// balance derived from the transaction log.
func TestRandomizedReconcile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	rng := rand.New(rand.NewSource(42))

	var numbers []string
	for i := 0; i < 5; i++ {
		acc, err := s.CreateAccount(ctx, "LoadUser", "", "1234", 100000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		numbers = append(numbers, acc.Number)
	}

	for i := 0; i < 200; i++ {
		n := numbers[rng.Intn(len(numbers))]
		amount := int64(rng.Intn(10000) + 1)
		switch rng.Intn(3) {
		case 0:
			if _, err := s.Deposit(ctx, n, amount, ""); err != nil {
				t.Fatalf("deposit failed: %v", err)
			}
		case 1:
			_, err := s.Withdraw(ctx, n, amount, "")
			if err != nil && !errors.Is(err, ErrInsufficientFunds) {
				t.Fatalf("withdraw failed: %v", err)
			}
		case 2:
			m := numbers[rng.Intn(len(numbers))]
			_, _, err := s.Transfer(ctx, n, m, amount, "")
			if err != nil && !errors.Is(err, ErrInsufficientFunds) && !errors.Is(err, ErrSameAccount) {
				t.Fatalf("transfer failed: %v", err)
			}
		}
	}

	var total int64
	for _, n := range numbers {
		stored, derived, err := s.ReconcileBalance(ctx, n)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored != derived {
			t.Errorf("account %s: stored %d, derived %d", n, stored, derived)
		}
		if stored < 0 {
			t.Errorf("account %s: negative balance %d", n, stored)
		}
		total += stored
	}
	// transfers preserve the total; deposits/withdrawals change it, but
	// the sum of all balances must still match the sum of all ledgers.
	if total < 0 {
		t.Errorf("negative total balance %d", total)
	}
}

func TestSearchAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	alice, _ := s.CreateAccount(ctx, "Alice Smith", "", "1234", 0)
	_, _ = s.CreateAccount(ctx, "Bob Jones", "", "4321", 0)

	byName, err := s.SearchAccounts(ctx, "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byName) != 1 || byName[0].Number != alice.Number {
		t.Errorf("expected only Alice, got %d results", len(byName))
	}

	byNumber, _ := s.SearchAccounts(ctx, alice.Number[:6])
	found := false
	for _, a := range byNumber {
		if a.Number == alice.Number {
			found = true
		}
	}
	if !found {
		t.Error("search by number prefix did not find the account")
	}

	all, _ := s.SearchAccounts(ctx, "")
	if len(all) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(all))
	}
}
