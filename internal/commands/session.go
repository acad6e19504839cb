package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/bankscrap-dev/bankscrap/internal/adapters"
	"github.com/bankscrap-dev/bankscrap/internal/bank"
	"github.com/bankscrap-dev/bankscrap/internal/client"
	"github.com/bankscrap-dev/bankscrap/internal/config"
	"github.com/bankscrap-dev/bankscrap/internal/export"
	"github.com/bankscrap-dev/bankscrap/internal/logging"
	"github.com/bankscrap-dev/bankscrap/internal/model"
)

// sharedOptions are the flags every bank command accepts.
type sharedOptions struct {
	credentials map[string]string
	configPath  string
	envFile     string
	iban        string
	format      string
	output      string
	locale      string
	log         bool
	debug       bool
}

func (o *sharedOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringToStringVar(&o.credentials, "credentials", nil, "bank credentials as key=value pairs")
	f.StringVar(&o.configPath, "config", "bankscrap.yaml", "config file")
	f.StringVar(&o.envFile, "env-file", ".env", "file with BANKSCRAP_<BANK>_<KEY> credentials")
	f.StringVar(&o.iban, "iban", "", "select the account with this IBAN")
	f.StringVar(&o.format, "format", "", "export format (csv or json)")
	f.StringVar(&o.output, "output", "", "export file (default stdout)")
	f.StringVar(&o.locale, "locale", "en", "locale for amounts in text output")
	f.BoolVar(&o.log, "log", false, "log progress")
	f.BoolVar(&o.debug, "debug", false, "log adapter diagnostics")
}

// session is an authenticated client plus what the commands need around it.
type session struct {
	client *client.Client
	cfg    *config.Config
	opts   *sharedOptions
	locale language.Tag
	out    io.Writer
}

func connect(ctx context.Context, cmd *cobra.Command, registry *adapters.Registry, bankName string, opts *sharedOptions) (*session, error) {
	locale, err := language.Parse(opts.locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale: %w", err)
	}

	cfg, err := config.LoadOptional(opts.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.log {
		level = "info"
	}
	if opts.debug {
		level = "debug"
	}
	logger, err := logging.Setup(level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	entry, err := registry.Resolve(bankName)
	if err != nil {
		return nil, err
	}

	envFile, err := config.ReadEnvFile(opts.envFile)
	if err != nil {
		return nil, err
	}
	creds := cfg.Credentials(entry.Name, envFile, config.Environ(), opts.credentials)

	c, err := client.New(ctx, entry.Name, entry.Factory, bank.Credentials(creds),
		client.WithLogger(logger),
		client.WithDebug(opts.debug),
		client.WithLookback(cfg.Transactions.LookbackYears),
	)
	if err != nil {
		logger.WithField("kind", bank.Kind(err)).WithError(err).Warn("Client.New.Error")
		return nil, err
	}

	return &session{client: c, cfg: cfg, opts: opts, locale: locale, out: cmd.OutOrStdout()}, nil
}

// account picks the account named by --iban, the configured IBAN, or the
// first account.
func (s *session) account(ctx context.Context) (*model.Account, error) {
	iban := s.opts.iban
	if iban == "" {
		iban = s.cfg.Bank(s.client.Bank()).IBAN
	}
	if iban != "" {
		return s.client.AccountWithIBAN(ctx, iban)
	}

	accounts, err := s.client.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: bank reported no accounts", bank.ErrNotFound)
	}
	return accounts[0], nil
}

// exportTo reports whether --format was given and, if so, writes with the
// chosen exporter to --output or stdout.
func (s *session) exportTo(write func(e export.Exporter, w io.Writer) error) (bool, error) {
	if s.opts.format == "" {
		return false, nil
	}
	e, err := export.ForFormat(s.opts.format)
	if err != nil {
		return true, err
	}
	if s.opts.output == "" || s.opts.output == "-" {
		return true, write(e, s.out)
	}
	return true, export.WriteFile(s.opts.output, func(w io.Writer) error {
		return write(e, w)
	})
}
