package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bankscrap-dev/bankscrap/internal/adapters"
	"github.com/bankscrap-dev/bankscrap/internal/export"
)

func newBalanceCommand(registry *adapters.Registry) *cobra.Command {
	var opts sharedOptions

	cmd := &cobra.Command{
		Use:   "balance <bank>",
		Short: "Show account balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), cmd, registry, args[0], &opts)
			if err != nil {
				return err
			}
			return runBalance(cmd, s)
		},
	}
	opts.register(cmd)

	return cmd
}

func runBalance(cmd *cobra.Command, s *session) error {
	accounts, err := s.client.Accounts(cmd.Context())
	if err != nil {
		return err
	}

	exported, err := s.exportTo(func(e export.Exporter, w io.Writer) error {
		return e.Accounts(w, accounts)
	})
	if exported {
		return err
	}

	for _, a := range accounts {
		fmt.Fprintf(s.out, "Account: %s (%s)\n", a.Description, a.IBAN)
		fmt.Fprintf(s.out, "Balance: %s\n", a.Balance.Format(s.locale))
		if !a.Balance.Equal(a.AvailableBalance) {
			fmt.Fprintf(s.out, "Available: %s\n", a.AvailableBalance.Format(s.locale))
		}
	}
	return nil
}
