/*
Package app wires the payment channel extensions into a single
application: the router with every operation, the query router, the
genesis initializers and the durable store.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/app"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/migration"
	"github.com/iov-one/paychan/store/iavl"
	"github.com/iov-one/paychan/x"
	"github.com/iov-one/paychan/x/auth"
	"github.com/iov-one/paychan/x/bank"
	"github.com/iov-one/paychan/x/channel"
	"github.com/iov-one/paychan/x/ownership"
)

// Name is used as the logging module of the application.
const Name = "paychan"

// Authenticator returns the authentication based on the caller declared
// in the transaction envelope.
func Authenticator() x.Authenticator {
	return auth.CallerAuth{}
}

// BankControl returns a controller for token balances.
func BankControl() bank.Controller {
	return bank.NewController()
}

// Router returns a router dispatching every supported operation.
func Router(authFn x.Authenticator) *app.Router {
	bankCtrl := BankControl()
	transfer := bank.NewTransferer(bankCtrl)
	owners := ownership.NewController(transfer)

	r := app.NewRouter()
	channel.RegisterRoutes(r,
		channel.NewController(authFn, crypto.Ed25519Verifier{}, owners, transfer),
		bankCtrl)
	ownership.RegisterRoutes(r, authFn, owners)
	migration.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a query router, allowing access to "/channels",
// "/ownership", "/balances" and "/schema".
func QueryRouter() paychan.QueryRouter {
	r := paychan.NewQueryRouter()
	r.RegisterAll(
		channel.RegisterQuery,
		ownership.RegisterQuery,
		bank.RegisterQuery,
		migration.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() paychan.Initializer {
	return paychan.ChainInitializers(
		migration.Initializer{},
		auth.Initializer{},
		bank.Initializer{},
		ownership.Initializer{},
	)
}

// Application constructs the application on top of given store. If you are
// not sure what clock to use, use clock.NewDefaultClock().
func Application(kv paychan.CommitKVStore, clk clock.Clock, logger log.Logger) (*app.Application, error) {
	return app.NewApplication(Name, kv, Router(Authenticator()), QueryRouter(), Initializers(), clk, logger)
}

// CommitKVStore returns an initialized store that persists the data to the
// named path.
func CommitKVStore(dbPath string) (*iavl.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
