package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/Codebywali/Banking-Mangement-System/internal/export"
	"github.com/google/subcommands"
)

type depositCmd struct {
	account string
	amount  string
	note    string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit money into an account" }
func (*depositCmd) Usage() string {
	return `bankctl deposit -account <number> -amount <amount> [-note <text>]

  Credits the account and records a deposit transaction.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.StringVar(&c.amount, "amount", "", "Amount to deposit, e.g. 25 or 19.99.")
	f.StringVar(&c.note, "note", "", "Optional note recorded with the transaction.")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	balance, err := svc.Deposit(ctx, c.account, c.amount, c.note)
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("Deposited %s into %s, new balance %s\n",
		c.amount, c.account, export.FormatAmount(balance))
	return subcommands.ExitSuccess
}

type withdrawCmd struct {
	account string
	amount  string
	note    string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw money from an account" }
func (*withdrawCmd) Usage() string {
	return `bankctl withdraw -account <number> -amount <amount> [-note <text>]

  Debits the account and records a withdrawal transaction. Fails if the
  amount exceeds the balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.StringVar(&c.amount, "amount", "", "Amount to withdraw.")
	f.StringVar(&c.note, "note", "", "Optional note recorded with the transaction.")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	balance, err := svc.Withdraw(ctx, c.account, c.amount, c.note)
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("Withdrew %s from %s, new balance %s\n",
		c.amount, c.account, export.FormatAmount(balance))
	return subcommands.ExitSuccess
}

type transferCmd struct {
	from   string
	to     string
	amount string
	note   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "transfer money between two accounts" }
func (*transferCmd) Usage() string {
	return `bankctl transfer -from <number> -to <number> -amount <amount> [-note <text>]

  Atomically moves the amount between two distinct accounts, recording a
  transfer_out on the source and a transfer_in on the destination.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account number.")
	f.StringVar(&c.to, "to", "", "Destination account number.")
	f.StringVar(&c.amount, "amount", "", "Amount to transfer.")
	f.StringVar(&c.note, "note", "", "Optional note recorded with both transactions.")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	srcBalance, dstBalance, err := svc.Transfer(ctx, c.from, c.to, c.amount, c.note)
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("Transferred %s from %s to %s\n", c.amount, c.from, c.to)
	fmt.Printf("  %s balance: %s\n", c.from, export.FormatAmount(srcBalance))
	fmt.Printf("  %s balance: %s\n", c.to, export.FormatAmount(dstBalance))
	return subcommands.ExitSuccess
}
