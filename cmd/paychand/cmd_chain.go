package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/app"
	pcapp "github.com/iov-one/paychan/cmd/paychand/app"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/migration"
	"github.com/iov-one/paychan/x/bank"
	"github.com/iov-one/paychan/x/ownership"
)

// accountsFlag collects repeated "-account name=balance" flags.
type accountsFlag []bank.GenesisAccount

func (f *accountsFlag) String() string {
	chunks := make([]string, 0, len(*f))
	for _, a := range *f {
		chunks = append(chunks, fmt.Sprintf("%s=%s", a.Account, a.Balance))
	}
	return strings.Join(chunks, ",")
}

func (f *accountsFlag) Set(raw string) error {
	chunks := strings.SplitN(raw, "=", 2)
	if len(chunks) != 2 {
		return errors.Wrapf(errors.ErrInput, "want <account>=<balance>, got %q", raw)
	}
	balance, err := paychan.ParseAmount(chunks[1])
	if err != nil {
		return err
	}
	*f = append(*f, bank.GenesisAccount{
		Account: paychan.AccountID(chunks[0]),
		Balance: balance,
	})
	return nil
}

// initCmd writes the genesis file, unless one exists, and initializes the
// state from it.
func initCmd(logger log.Logger, home string, args []string) error {
	var accounts accountsFlag
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	chainID := fs.String("chain-id", "paychan-local", "chain id")
	contract := fs.String("contract", "paychan.near", "contract account holding escrowed funds")
	owner := fs.String("owner", "", "fee owner, none if empty")
	fee := fs.String("fee", "0", "fee rate taken from withdrawals, for example 1/100")
	fs.Var(&accounts, "account", "initial balance as <account>=<amount>, can be repeated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	genPath := filepath.Join(home, genesisFile)
	gen, err := app.LoadGenesis(genPath)
	if err != nil {
		if _, statErr := os.Stat(genPath); !os.IsNotExist(statErr) {
			return err
		}
		rate, err := paychan.ParseFractionString(*fee)
		if err != nil {
			return errors.Wrap(err, "-fee")
		}
		gen, err = pcapp.GenInitOptions(pcapp.GenesisParams{
			ChainID:  *chainID,
			Contract: paychan.AccountID(*contract),
			Owner:    paychan.AccountID(*owner),
			Fee:      rate,
			Accounts: accounts,
		})
		if err != nil {
			return err
		}
		if err := app.SaveGenesis(genPath, gen); err != nil {
			return err
		}
		logger.Info("genesis file written", "path", genPath)
	}

	n, err := openNode(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	if err := n.app.InitChain(gen); err != nil {
		return err
	}
	if _, err := n.app.Commit(); err != nil {
		return err
	}
	fmt.Println(gen.ChainID)
	return nil
}

func balanceCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	account := fs.String("account", "", "account to print the balance of")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("account", *account); err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()

	models, err := n.app.Query("/balances", []byte(*account))
	if err != nil {
		return err
	}
	var b bank.Balance
	if len(models) != 0 {
		if err := codec.Unmarshal(models[0].Value, &b); err != nil {
			return err
		}
	}
	fmt.Println(b.Amount)
	return nil
}

func ownerCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("owner", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()

	models, err := n.app.Query("/ownership", nil)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println("no owner")
		return nil
	}
	var o ownership.Ownership
	if err := codec.Unmarshal(models[0].Value, &o); err != nil {
		return err
	}
	return printJSON(&o)
}

func ownerUpdateCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("owner-update", flag.ExitOnError)
	caller := fs.String("caller", "", "account submitting the operation, must be the contract")
	owner := fs.String("owner", "", "new owner, removes the ownership if empty")
	fee := fs.String("fee", "0", "fee rate, for example 1/100")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rate, err := paychan.ParseFractionString(*fee)
	if err != nil {
		return errors.Wrap(err, "-fee")
	}
	msg := &ownership.UpdateMsg{Fee: rate}
	if *owner != "" {
		id := paychan.AccountID(*owner)
		msg.Owner = &id
	}

	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, msg)
	return err
}

func ownerWithdrawCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("owner-withdraw", flag.ExitOnError)
	caller := fs.String("caller", "", "account submitting the operation, the owner or the contract")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, &ownership.WithdrawMsg{})
	return err
}

func migrateCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	caller := fs.String("caller", "", "account submitting the operation, must be the contract")
	pkg := fs.String("pkg", "channel", "package to upgrade")
	version := fs.Uint("version", 0, "schema version to upgrade to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, &migration.UpgradeSchemaMsg{
		Pkg:       *pkg,
		ToVersion: uint32(*version),
	})
	return err
}
