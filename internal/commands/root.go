package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankscrap-dev/bankscrap/internal/adapters"
	"github.com/bankscrap-dev/bankscrap/internal/bank"
	"github.com/bankscrap-dev/bankscrap/internal/buildinfo"
	"github.com/bankscrap-dev/bankscrap/internal/model"
	"github.com/bankscrap-dev/bankscrap/internal/money"
)

// NewRootCommand creates the root CLI command with all subcommands registered
// against the built-in adapters.
func NewRootCommand() *cobra.Command {
	return newRootCommand(adapters.DefaultRegistry())
}

func newRootCommand(registry *adapters.Registry) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankscrap",
		Short:   "Fetch balances, cards, loans and transactions from your banks",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newBalanceCommand(registry),
		newCardsCommand(registry),
		newLoansCommand(registry),
		newTransactionsCommand(registry),
		newBanksCommand(registry),
	)

	return rootCmd
}

// Exit codes let scripts tell failure kinds apart without parsing messages.
const (
	ExitOK = iota
	ExitError
	ExitUnknownBank
	ExitAuthentication
	ExitUnavailable
	ExitNotFound
	ExitInvalidData
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, bank.ErrUnknownBank):
		return ExitUnknownBank
	case errors.Is(err, bank.ErrAuthentication):
		return ExitAuthentication
	case errors.Is(err, bank.ErrUnavailable), errors.Is(err, bank.ErrRateLimited):
		return ExitUnavailable
	case errors.Is(err, bank.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, bank.ErrParse), errors.Is(err, model.ErrTypeMismatch), errors.Is(err, money.ErrCurrencyMismatch):
		return ExitInvalidData
	default:
		return ExitError
	}
}
