package auth

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/gconf"
	"github.com/iov-one/paychan/x"
)

const pkgName = "auth"

// Configuration is the package configuration stored in the database.
type Configuration struct {
	_ struct{} `cbor:",toarray"`
	// Contract is the account that holds all escrowed funds and is
	// allowed to call privileged operations.
	Contract paychan.AccountID `json:"contract"`
}

// Validate ensures the configuration is valid.
func (c *Configuration) Validate() error {
	if err := c.Contract.Validate(); err != nil {
		return errors.Field("Contract", err, "invalid contract account")
	}
	return nil
}

// CallerAuth authenticates the account that invoked the current operation.
type CallerAuth struct{}

var _ x.Authenticator = CallerAuth{}

// GetAccounts returns the caller, if set.
func (CallerAuth) GetAccounts(ctx paychan.Context) []paychan.AccountID {
	caller, ok := paychan.GetCaller(ctx)
	if !ok {
		return nil
	}
	return []paychan.AccountID{caller}
}

// HasAccount returns true if given account is the caller.
func (CallerAuth) HasAccount(ctx paychan.Context, acct paychan.AccountID) bool {
	caller, ok := paychan.GetCaller(ctx)
	return ok && caller.Equals(acct)
}

// ContractAccount returns the configured contract account.
func ContractAccount(db gconf.ReadStore) (paychan.AccountID, error) {
	var conf Configuration
	if err := gconf.Load(db, pkgName, &conf); err != nil {
		return "", errors.Wrap(err, "load auth configuration")
	}
	return conf.Contract, nil
}

// RequireContract returns ErrUnauthorized unless the operation was
// authorized by the contract account.
func RequireContract(ctx paychan.Context, db gconf.ReadStore, auth x.Authenticator) error {
	contract, err := ContractAccount(db)
	if err != nil {
		return err
	}
	if !auth.HasAccount(ctx, contract) {
		return errors.Wrap(errors.ErrUnauthorized, "contract account required")
	}
	return nil
}

// SaveConfiguration validates and stores the package configuration.
func SaveConfiguration(db gconf.Store, conf *Configuration) error {
	return gconf.Save(db, pkgName, conf)
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ paychan.Initializer = Initializer{}

// FromGenesis stores the contract account configuration.
func (Initializer) FromGenesis(opts paychan.Options, db paychan.KVStore) error {
	if err := gconf.InitConfig(db, opts, pkgName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
