package export

import (
	"fmt"
	"strings"

	"github.com/Codebywali/Banking-Mangement-System/internal/models"
	"github.com/Rhymond/go-money"
)

// CurrencyCode is the display currency for formatted amounts. Stored
// amounts are currency-agnostic minor units.
const CurrencyCode = money.USD

// FormatAmount renders minor units with the currency symbol ("$19.99").
func FormatAmount(minor int64) string {
	return money.New(minor, CurrencyCode).Display()
}

// Receipt renders a single transaction as a markdown receipt document.
func Receipt(t *models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transaction Receipt\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| ID | %d |\n", t.ID)
	fmt.Fprintf(&b, "| Reference | %s |\n", t.Reference)
	fmt.Fprintf(&b, "| Account | %s |\n", t.AccountNo)
	fmt.Fprintf(&b, "| Type | %s |\n", t.Kind)
	fmt.Fprintf(&b, "| Amount | %s |\n", FormatAmount(t.Amount))
	if t.Counterparty != "" {
		fmt.Fprintf(&b, "| Counterparty | %s |\n", t.Counterparty)
	}
	fmt.Fprintf(&b, "| Timestamp | %s |\n", t.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if t.Note != "" {
		fmt.Fprintf(&b, "| Note | %s |\n", t.Note)
	}
	return b.String()
}

// History renders an account header and its transactions as a markdown
// table.
func History(acc *models.Account, txs []*models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Account %s — %s\n\n", acc.Number, acc.OwnerName)
	fmt.Fprintf(&b, "Balance: **%s**\n\n", FormatAmount(acc.Balance))

	if len(txs) == 0 {
		b.WriteString("No transactions.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "| ID | Type | Amount | Counterparty | Timestamp | Note |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
	for _, t := range txs {
		sign := "-"
		if t.Inbound() {
			sign = "+"
		}
		fmt.Fprintf(&b, "| %d | %s | %s%s | %s | %s | %s |\n",
			t.ID, t.Kind, sign, FormatAmount(t.Amount),
			t.Counterparty, t.CreatedAt.Format("2006-01-02 15:04:05"), t.Note)
	}
	return b.String()
}

// AccountList renders a markdown table of account summaries.
func AccountList(accounts []*models.Account) string {
	var b strings.Builder
	b.WriteString("# Accounts\n\n")
	if len(accounts) == 0 {
		b.WriteString("No accounts.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "| Account | Owner | Balance | Created |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			a.Number, a.OwnerName, FormatAmount(a.Balance), a.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}
