package x

import (
	"github.com/iov-one/paychan"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/auth for all extensions.
type Authenticator interface {
	// GetAccounts reveals all accounts that authorized the current
	// operation.
	GetAccounts(paychan.Context) []paychan.AccountID
	// HasAccount checks if given account authorized the operation.
	HasAccount(paychan.Context, paychan.AccountID) bool
}

// HasAnyAccount returns true if at least one of given accounts
// authorized the operation.
func HasAnyAccount(ctx paychan.Context, auth Authenticator, accts ...paychan.AccountID) bool {
	for _, a := range accts {
		if auth.HasAccount(ctx, a) {
			return true
		}
	}
	return false
}
