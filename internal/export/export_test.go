package export

import (
	"strings"
	"testing"
	"time"

	"github.com/Codebywali/Banking-Mangement-System/internal/models"
)

func TestWriteCSV(t *testing.T) {
	rows := [][]string{
		{"1", "1234567890", "deposit", "150.00", "", "2024-05-01 10:00:00", "Initial deposit"},
		{"2", "1234567890", "transfer_out", "30.00", "0987654321", "2024-05-02 11:30:00", ""},
	}

	var b strings.Builder
	if err := WriteCSV(&b, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "id,account_no,type,amount,counterparty,timestamp,note\n" +
		"1,1234567890,deposit,150.00,,2024-05-01 10:00:00,Initial deposit\n" +
		"2,1234567890,transfer_out,30.00,0987654321,2024-05-02 11:30:00,\n"
	if b.String() != want {
		t.Errorf("csv output mismatch:\ngot:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestReceipt(t *testing.T) {
	tx := &models.Transaction{
		ID:           7,
		Reference:    "ref-7",
		AccountNo:    "1234567890",
		Counterparty: "0987654321",
		Kind:         models.TransferOut,
		Amount:       3000,
		Note:         "rent",
		CreatedAt:    time.Date(2024, 5, 2, 11, 30, 0, 0, time.UTC),
	}

	md := Receipt(tx)
	for _, want := range []string{"Transaction Receipt", "$30.00", "transfer_out", "1234567890", "0987654321", "rent"} {
		if !strings.Contains(md, want) {
			t.Errorf("receipt missing %q:\n%s", want, md)
		}
	}
}

func TestHistoryEmpty(t *testing.T) {
	acc := &models.Account{Number: "1234567890", OwnerName: "Alice", Balance: 0}
	md := History(acc, nil)
	if !strings.Contains(md, "No transactions.") {
		t.Errorf("expected empty-history message, got:\n%s", md)
	}
	if !strings.Contains(md, "$0.00") {
		t.Errorf("expected formatted zero balance, got:\n%s", md)
	}
}

func TestHistorySigns(t *testing.T) {
	acc := &models.Account{Number: "1234567890", OwnerName: "Alice", Balance: 12000}
	txs := []*models.Transaction{
		{ID: 1, Kind: models.Deposit, Amount: 15000, CreatedAt: time.Now()},
		{ID: 2, Kind: models.Withdrawal, Amount: 3000, CreatedAt: time.Now()},
	}
	md := History(acc, txs)
	if !strings.Contains(md, "+$150.00") {
		t.Errorf("deposit should render inbound, got:\n%s", md)
	}
	if !strings.Contains(md, "-$30.00") {
		t.Errorf("withdrawal should render outbound, got:\n%s", md)
	}
}
