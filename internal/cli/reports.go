package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Codebywali/Banking-Mangement-System/internal/export"
	"github.com/google/subcommands"
)

type historyCmd struct {
	account string
	limit   int
	desc    bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show an account's transaction history" }
func (*historyCmd) Usage() string {
	return `bankctl history -account <number> [-limit <n>] [-desc]

  Shows the transaction history, chronological by default.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.IntVar(&c.limit, "limit", 0, "Show at most N transactions. 0 means all.")
	f.BoolVar(&c.desc, "desc", false, "Newest first.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	acc, err := svc.GetAccount(ctx, c.account)
	if err != nil {
		return fatal(err)
	}
	txs, err := svc.Transactions(ctx, c.account, c.limit, c.desc)
	if err != nil {
		return fatal(err)
	}
	printMarkdown(export.History(acc, txs))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	account string
	out     string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export an account's history as CSV" }
func (*exportCmd) Usage() string {
	return `bankctl export -account <number> [-o <file>]

  Writes the full transaction history as CSV. "-o -" writes to stdout;
  the default file name is <number>.csv.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.StringVar(&c.out, "o", "", "Output file. \"-\" for stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	rows, err := svc.ExportHistory(ctx, c.account)
	if err != nil {
		return fatal(err)
	}

	if c.out == "-" {
		if err := export.WriteCSV(os.Stdout, rows); err != nil {
			return fatal(err)
		}
		return subcommands.ExitSuccess
	}

	name := c.out
	if name == "" {
		name = c.account + ".csv"
	}
	file, err := os.Create(name)
	if err != nil {
		return fatal(fmt.Errorf("failed to create %q: %w", name, err))
	}
	defer file.Close()

	if err := export.WriteCSV(file, rows); err != nil {
		return fatal(err)
	}
	fmt.Printf("Exported %d transactions to %s\n", len(rows), name)
	return subcommands.ExitSuccess
}

type receiptCmd struct {
	tx int64
}

func (*receiptCmd) Name() string     { return "receipt" }
func (*receiptCmd) Synopsis() string { return "render a receipt for one transaction" }
func (*receiptCmd) Usage() string {
	return `bankctl receipt -tx <id>

  Renders a human-readable receipt document for a single transaction.
`
}

func (c *receiptCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.tx, "tx", 0, "Transaction ID.")
}

func (c *receiptCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	t, err := svc.Transaction(ctx, c.tx)
	if err != nil {
		return fatal(err)
	}
	printMarkdown(export.Receipt(t))
	return subcommands.ExitSuccess
}

type verifyCmd struct {
	account string
}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "check the balance against the transaction log" }
func (*verifyCmd) Usage() string {
	return `bankctl verify -account <number>

  Re-derives the balance from the transaction log and compares it to the
  stored balance. The two must always agree.
`
}

func (c *verifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
}

func (c *verifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	stored, derived, err := svc.Reconcile(ctx, c.account)
	if err != nil {
		return fatal(err)
	}
	if stored != derived {
		fmt.Fprintf(os.Stderr, "MISMATCH: stored %s, ledger says %s\n",
			export.FormatAmount(stored), export.FormatAmount(derived))
		return subcommands.ExitFailure
	}
	fmt.Printf("OK: balance %s matches the transaction log\n", export.FormatAmount(stored))
	return subcommands.ExitSuccess
}
