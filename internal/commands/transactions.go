package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankscrap-dev/bankscrap/internal/adapters"
	"github.com/bankscrap-dev/bankscrap/internal/bank"
	"github.com/bankscrap-dev/bankscrap/internal/export"
	"github.com/bankscrap-dev/bankscrap/internal/model"
)

const (
	flagDateFormat = "02-01-2006"
	spacer         = "   "
	descWidth      = 50
	amountWidth    = 15
)

var errFromAfterTo = errors.New("from date must be lower than to date")

func newTransactionsCommand(registry *adapters.Registry) *cobra.Command {
	var opts sharedOptions
	var from, to string
	var recent bool

	cmd := &cobra.Command{
		Use:   "transactions <bank>",
		Short: "List an account's transactions",
		Long: "List an account's transactions. Without --from/--to the bank's full history is\n" +
			"fetched; with only one of them the other end is left open. --recent limits the\n" +
			"fetch to the configured lookback window through today.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseDateFlags(from, to)
			if err != nil {
				return err
			}

			s, err := connect(cmd.Context(), cmd, registry, args[0], &opts)
			if err != nil {
				return err
			}
			if recent {
				r := s.client.DefaultRange()
				start, end = r.Start, r.End
			}
			return runTransactions(cmd, s, start, end)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "first day, dd-mm-yyyy")
	cmd.Flags().StringVar(&to, "to", "", "last day, dd-mm-yyyy")
	cmd.Flags().BoolVar(&recent, "recent", false, "only the lookback window (transactions.lookback_years) through today")
	cmd.MarkFlagsMutuallyExclusive("recent", "from")
	cmd.MarkFlagsMutuallyExclusive("recent", "to")

	return cmd
}

// parseDateFlags parses --from/--to and rejects from > to before any bank
// is contacted.
func parseDateFlags(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = time.Parse(flagDateFormat, from); err != nil {
			return start, end, fmt.Errorf("invalid --from %q, correct format d-m-Y (eg: 31-12-2016)", from)
		}
	}
	if to != "" {
		if end, err = time.Parse(flagDateFormat, to); err != nil {
			return start, end, fmt.Errorf("invalid --to %q, correct format d-m-Y (eg: 31-12-2016)", to)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, fmt.Errorf("%w: %w", errFromAfterTo, bank.ErrInvalidDateRange)
	}
	return start, end, nil
}

func runTransactions(cmd *cobra.Command, s *session, start, end time.Time) error {
	ctx := cmd.Context()
	account, err := s.account(ctx)
	if err != nil {
		return err
	}

	var txns []model.Transaction
	if start.IsZero() && end.IsZero() {
		txns, err = account.Transactions(ctx)
	} else {
		// A missing end stays open for the bank to bound.
		txns, err = s.client.FetchTransactionsFor(ctx, account, start, end)
	}
	if err != nil {
		return err
	}

	exported, err := s.exportTo(func(e export.Exporter, w io.Writer) error {
		return e.Transactions(w, txns)
	})
	if exported {
		return err
	}

	fmt.Fprintf(s.out, "Transactions for: %s (%s)\n\n", account.Description, account.IBAN)
	fmt.Fprintf(s.out, "%-13s%-*s%s%*s%s%*s\n",
		"DATE", descWidth, "DESCRIPTION", spacer, amountWidth, "AMOUNT", spacer, amountWidth, "BALANCE")
	fmt.Fprintln(s.out, strings.Repeat("-", 99))
	for _, t := range txns {
		fmt.Fprintf(s.out, "%-13s%-*s%s%*s%s%*s\n",
			t.EffectiveDate.Format("02/01/2006"),
			descWidth, truncate(squish(t.Description), descWidth),
			spacer,
			amountWidth, t.Amount.Format(s.locale),
			spacer,
			amountWidth, t.Balance.Format(s.locale))
	}
	return nil
}

// squish collapses runs of whitespace into single spaces.
func squish(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
