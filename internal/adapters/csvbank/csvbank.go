// Package csvbank is a bank adapter backed by an export directory on disk.
//
// Layout of the directory given by the "dir" credential:
//
//	accounts.yaml            accounts, cards and loans
//	credentials.yaml         optional; user/password the login must match
//	transactions/<id>.csv    one statement per account id
package csvbank

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/bankscrap-dev/bankscrap/internal/bank"
	"github.com/bankscrap-dev/bankscrap/internal/logging"
	"github.com/bankscrap-dev/bankscrap/internal/model"
	"github.com/bankscrap-dev/bankscrap/internal/money"
)

// Name is the adapter's registry name.
const Name = "CSVBank"

const (
	accountsFile    = "accounts.yaml"
	credentialsFile = "credentials.yaml"
	statementsDir   = "transactions"
)

type accountsDoc struct {
	Accounts []accountRecord `yaml:"accounts"`
	Cards    []productRecord `yaml:"cards,omitempty"`
	Loans    []productRecord `yaml:"loans,omitempty"`
}

type accountRecord struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	IBAN             string `yaml:"iban"`
	BIC              string `yaml:"bic"`
	Currency         string `yaml:"currency"`
	Balance          string `yaml:"balance"`
	AvailableBalance string `yaml:"available_balance"`
}

type productRecord struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Currency    string `yaml:"currency"`
	Amount      string `yaml:"amount"`
}

type credentialsDoc struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Adapter reads accounts and statements from a local directory.
type Adapter struct {
	log logrus.FieldLogger
}

// New is the bank.Factory for this adapter.
func New(opts bank.Options) (bank.Adapter, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Adapter{log: log.WithField("bank", Name)}, nil
}

func (a *Adapter) Authenticate(_ context.Context, creds bank.Credentials) (*bank.Session, error) {
	if err := creds.Require("dir"); err != nil {
		return nil, a.fail("Authenticate", err, "")
	}
	dir := creds["dir"]

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, a.fail("Authenticate", bank.ErrUnavailable, fmt.Sprintf("export directory %s not readable", dir))
	}

	var expected credentialsDoc
	found, err := readYAML(filepath.Join(dir, credentialsFile), &expected)
	if err != nil {
		return nil, a.fail("Authenticate", bank.ErrParse, err.Error())
	}
	if found && (creds["user"] != expected.User || creds["password"] != expected.Password) {
		return nil, a.fail("Authenticate", bank.ErrAuthentication, "user or password rejected")
	}

	a.log.WithField("dir", dir).Debug("csvbank.Authenticate.Complete")
	sessionID := creds["user"]
	if sessionID == "" {
		sessionID = "local"
	}
	return &bank.Session{ID: sessionID, Bank: Name, State: dir}, nil
}

func (a *Adapter) ListAccounts(_ context.Context, session *bank.Session) ([]model.AccountData, error) {
	doc, err := a.load(session, "ListAccounts")
	if err != nil {
		return nil, err
	}

	accounts := make([]model.AccountData, 0, len(doc.Accounts))
	for i, rec := range doc.Accounts {
		balance, err := money.Parse(rec.Balance, rec.Currency)
		if err != nil {
			return nil, a.fail("ListAccounts", bank.ErrParse, fmt.Sprintf("account %d balance: %v", i, err))
		}
		available, err := money.Parse(rec.AvailableBalance, rec.Currency)
		if err != nil {
			return nil, a.fail("ListAccounts", bank.ErrParse, fmt.Sprintf("account %d available balance: %v", i, err))
		}
		accounts = append(accounts, model.AccountData{
			ID:               rec.ID,
			Name:             rec.Name,
			Description:      rec.Description,
			Balance:          balance,
			AvailableBalance: available,
			IBAN:             rec.IBAN,
			BIC:              rec.BIC,
			RawData:          map[string]any{"currency": rec.Currency},
		})
	}
	return accounts, nil
}

func (a *Adapter) ListCards(_ context.Context, session *bank.Session) ([]model.ProductData, error) {
	doc, err := a.load(session, "ListCards")
	if err != nil {
		return nil, err
	}
	return a.products("ListCards", doc.Cards)
}

func (a *Adapter) ListLoans(_ context.Context, session *bank.Session) ([]model.ProductData, error) {
	doc, err := a.load(session, "ListLoans")
	if err != nil {
		return nil, err
	}
	return a.products("ListLoans", doc.Loans)
}

// FetchTransactions reads transactions/<account id>.csv. A missing statement
// means the account has no movements.
func (a *Adapter) FetchTransactions(_ context.Context, session *bank.Session, account *model.Account, r bank.DateRange) ([]model.TransactionData, error) {
	dir, err := sessionDir(session)
	if err != nil {
		return nil, a.fail("FetchTransactions", err, "")
	}

	if err := checkAccountID(account); err != nil {
		return nil, a.fail("FetchTransactions", err, "")
	}

	path := filepath.Join(dir, statementsDir, account.ID+".csv")
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, a.fail("FetchTransactions", bank.ErrUnavailable, err.Error())
	}
	defer f.Close()

	all, err := ParseStatement(f, account.ID, account.Currency())
	if err != nil {
		return nil, a.fail("FetchTransactions", bank.ErrParse, fmt.Sprintf("%s: %v", path, err))
	}

	// Same-day rows keep their file order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].EffectiveDate.Before(all[j].EffectiveDate)
	})

	var txns []model.TransactionData
	for _, t := range all {
		if r.Contains(t.EffectiveDate) {
			txns = append(txns, t)
		}
	}

	a.log.WithFields(logrus.Fields{
		"account": account.ID,
		"total":   len(all),
		"matched": len(txns),
	}).Debug("csvbank.FetchTransactions.Complete")
	return txns, nil
}

func (a *Adapter) load(session *bank.Session, op string) (*accountsDoc, error) {
	dir, err := sessionDir(session)
	if err != nil {
		return nil, a.fail(op, err, "")
	}

	var doc accountsDoc
	found, err := readYAML(filepath.Join(dir, accountsFile), &doc)
	if err != nil {
		return nil, a.fail(op, bank.ErrParse, err.Error())
	}
	if !found {
		return nil, a.fail(op, bank.ErrUnavailable, accountsFile+" not found")
	}
	return &doc, nil
}

func (a *Adapter) products(op string, recs []productRecord) ([]model.ProductData, error) {
	out := make([]model.ProductData, 0, len(recs))
	for i, rec := range recs {
		amount, err := money.Parse(rec.Amount, rec.Currency)
		if err != nil {
			return nil, a.fail(op, bank.ErrParse, fmt.Sprintf("item %d amount: %v", i, err))
		}
		out = append(out, model.ProductData{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Amount:      amount,
			RawData:     map[string]any{"currency": rec.Currency},
		})
	}
	return out, nil
}

func (a *Adapter) fail(op string, cause error, details string) error {
	err := &bank.AdapterError{Bank: Name, Operation: op, Cause: cause, Details: details}
	a.log.WithError(err).Debugf("csvbank.%s.Error", op)
	return err
}

func sessionDir(session *bank.Session) (string, error) {
	if session == nil {
		return "", fmt.Errorf("%w: no session", bank.ErrAuthentication)
	}
	dir, ok := session.State.(string)
	if !ok || dir == "" {
		return "", fmt.Errorf("%w: session has no export directory", bank.ErrAuthentication)
	}
	return dir, nil
}

// checkAccountID rejects IDs that cannot name a file inside the statements
// directory.
func checkAccountID(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: no account given", bank.ErrNotFound)
	}
	id := account.ID
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: invalid account id %q", bank.ErrNotFound, id)
	}
	return nil
}

// readYAML decodes path into v. It reports false without error when the
// file does not exist.
func readYAML(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
