package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bankscrap-dev/bankscrap/internal/adapters"
	"github.com/bankscrap-dev/bankscrap/internal/export"
)

func newCardsCommand(registry *adapters.Registry) *cobra.Command {
	var opts sharedOptions

	cmd := &cobra.Command{
		Use:   "cards <bank>",
		Short: "List credit and debit cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), cmd, registry, args[0], &opts)
			if err != nil {
				return err
			}

			cards, err := s.client.Cards(cmd.Context())
			if err != nil {
				return err
			}
			exported, err := s.exportTo(func(e export.Exporter, w io.Writer) error {
				return e.Cards(w, cards)
			})
			if exported {
				return err
			}

			for _, c := range cards {
				fmt.Fprintf(s.out, "Card: %s %s %s\n", c.Name, c.Description, c.Amount.Format(s.locale))
			}
			return nil
		},
	}
	opts.register(cmd)

	return cmd
}

func newLoansCommand(registry *adapters.Registry) *cobra.Command {
	var opts sharedOptions

	cmd := &cobra.Command{
		Use:   "loans <bank>",
		Short: "List loans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), cmd, registry, args[0], &opts)
			if err != nil {
				return err
			}

			loans, err := s.client.Loans(cmd.Context())
			if err != nil {
				return err
			}
			exported, err := s.exportTo(func(e export.Exporter, w io.Writer) error {
				return e.Loans(w, loans)
			})
			if exported {
				return err
			}

			for _, l := range loans {
				fmt.Fprintf(s.out, "Loan: %s %s %s\n", l.Name, l.Description, l.Amount.Format(s.locale))
			}
			return nil
		},
	}
	opts.register(cmd)

	return cmd
}

func newBanksCommand(registry *adapters.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List installed bank adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range registry.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
