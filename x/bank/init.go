package bank

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

const optKey = "bank"

// GenesisAccount is used to parse the json from genesis file
type GenesisAccount struct {
	Account paychan.AccountID `json:"account"`
	Balance paychan.Amount    `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ paychan.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts paychan.Options, db paychan.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read %s: %s", optKey, err)
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Account.Validate(); err != nil {
			return errors.Field("Account", err, "genesis account %d", i)
		}
		if err := ctrl.IssueCoins(db, acct.Account, acct.Balance); err != nil {
			return errors.Wrapf(err, "genesis account %s", acct.Account)
		}
	}
	return nil
}
