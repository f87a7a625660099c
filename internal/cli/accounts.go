package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Codebywali/Banking-Mangement-System/internal/export"
	"github.com/google/subcommands"
)

type openCmd struct {
	name    string
	contact string
	pin     string
	deposit string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open a new account" }
func (*openCmd) Usage() string {
	return `bankctl open -name <owner> -pin <4-8 digits> [-contact <info>] [-deposit <amount>]

  Opens a new account and prints its generated account number. A non-zero
  opening deposit is recorded in the transaction history.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Owner name.")
	f.StringVar(&c.contact, "contact", "", "Contact information.")
	f.StringVar(&c.pin, "pin", "", "Access PIN, 4-8 digits.")
	f.StringVar(&c.deposit, "deposit", "", "Optional opening deposit amount.")
}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	acc, err := svc.CreateAccount(ctx, c.name, c.contact, c.pin, c.deposit)
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("Opened account %s for %s (balance %s)\n",
		acc.Number, acc.OwnerName, export.FormatAmount(acc.Balance))
	return subcommands.ExitSuccess
}

type quickCmd struct{}

func (*quickCmd) Name() string     { return "quick" }
func (*quickCmd) Synopsis() string { return "open an account with generated metadata" }
func (*quickCmd) Usage() string {
	return `bankctl quick

  Opens an account with a generated owner name and a random 4-digit PIN.
  The PIN is printed once; store it.
`
}
func (*quickCmd) SetFlags(*flag.FlagSet) {}

func (c *quickCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	acc, pin, err := svc.QuickCreateAccount(ctx)
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("Opened account %s for %s\nPIN: %s (store it!)\n", acc.Number, acc.OwnerName, pin)
	return subcommands.ExitSuccess
}

type closeCmd struct {
	account string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close an account" }
func (*closeCmd) Usage() string {
	return `bankctl close -account <number>

  Closes an account and removes its transaction history. The balance must
  be zero; withdraw or transfer the funds first.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number to close.")
}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	if err := svc.DeleteAccount(ctx, c.account); err != nil {
		return fatal(err)
	}
	fmt.Printf("Closed account %s\n", c.account)
	return subcommands.ExitSuccess
}

type accountsCmd struct {
	search string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts" }
func (*accountsCmd) Usage() string {
	return `bankctl accounts [-search <text>]

  Lists accounts, newest first, optionally filtered by a substring of the
  account number or owner name.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.search, "search", "", "Filter by account number or owner name.")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	accounts, err := svc.SearchAccounts(ctx, c.search)
	if err != nil {
		return fatal(err)
	}
	printMarkdown(export.AccountList(accounts))
	return subcommands.ExitSuccess
}

type loginCmd struct {
	account string
	pin     string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "authenticate against an account and show it" }
func (*loginCmd) Usage() string {
	return `bankctl login -account <number> -pin <pin>

  Verifies the PIN and, on success, prints the account with its recent
  history.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account number.")
	f.StringVar(&c.pin, "pin", "", "Access PIN.")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, closeFn, err := openService()
	if err != nil {
		return fatal(err)
	}
	defer closeFn()

	if err := svc.Authenticate(ctx, c.account, c.pin); err != nil {
		fmt.Fprintln(os.Stderr, "Login failed:", err)
		return subcommands.ExitFailure
	}

	acc, err := svc.GetAccount(ctx, c.account)
	if err != nil {
		return fatal(err)
	}
	txs, err := svc.Transactions(ctx, c.account, 10, true)
	if err != nil {
		return fatal(err)
	}
	printMarkdown(export.History(acc, txs))
	return subcommands.ExitSuccess
}
