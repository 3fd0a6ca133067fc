package app

import (
	"encoding/json"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/app"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x/auth"
	"github.com/iov-one/paychan/x/bank"
	"github.com/iov-one/paychan/x/ownership"
)

// Schema packages initialized at genesis.
var schemaPackages = []string{"channel"}

// GenesisParams describe the initial state of a new chain.
type GenesisParams struct {
	ChainID  string
	Contract paychan.AccountID
	// Owner is optional. Without an owner no fee is collected.
	Owner    paychan.AccountID
	Fee      paychan.Fraction
	Accounts []bank.GenesisAccount
}

// GenInitOptions produces the genesis for given parameters.
func GenInitOptions(p GenesisParams) (*app.Genesis, error) {
	type dict map[string]interface{}

	conf := dict{
		"auth": auth.Configuration{Contract: p.Contract},
	}
	if p.Owner != "" {
		conf["ownership"] = ownership.Ownership{Owner: p.Owner, Fee: p.Fee}
	}
	accounts := p.Accounts
	if accounts == nil {
		accounts = []bank.GenesisAccount{}
	}

	sections := dict{
		"conf":              conf,
		"bank":              accounts,
		"initialize_schema": schemaPackages,
	}
	state := make(paychan.Options)
	for key, value := range sections {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "%s: %s", key, err)
		}
		state[key] = raw
	}
	return &app.Genesis{ChainID: p.ChainID, AppState: state}, nil
}
