// Package cli implements the command line presentation layer over the
// banking service. Commands hold no business rules: each one parses
// flags, calls the facade and prints the result.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/Codebywali/Banking-Mangement-System/internal/ledger"
	"github.com/Codebywali/Banking-Mangement-System/internal/pinhash"
	"github.com/Codebywali/Banking-Mangement-System/internal/service"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// as a CLI application it has a very short lived lifecycle, so global
// flags for the shared settings are ok.
var (
	dbPath = flag.String("db", "banking.db", "Path to the SQLite database file")
	bcrypt = flag.Bool("bcrypt", false, "Hash PINs with bcrypt instead of SHA-256")
)

// Register registers all subcommands on the commander.
func Register(c *subcommands.Commander) {
	c.Register(&openCmd{}, "accounts")
	c.Register(&quickCmd{}, "accounts")
	c.Register(&closeCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&loginCmd{}, "accounts")

	c.Register(&depositCmd{}, "operations")
	c.Register(&withdrawCmd{}, "operations")
	c.Register(&transferCmd{}, "operations")

	c.Register(&historyCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&receiptCmd{}, "reports")
	c.Register(&verifyCmd{}, "reports")
}

// openService opens the store at the configured path and wraps it in the
// facade. The returned close function must run before exit.
func openService() (*service.BankService, func(), error) {
	var hasher pinhash.Hasher = pinhash.SHA256{}
	if *bcrypt {
		hasher = pinhash.Bcrypt{}
	}
	store, err := ledger.Open(ledger.Config{Path: *dbPath, Hasher: hasher})
	if err != nil {
		return nil, nil, err
	}
	return service.NewBankService(store), func() { _ = store.Close() }, nil
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails (e.g. no usable TERM).
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fatal(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
