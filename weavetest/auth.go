package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/paychan"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced accounts.
// You can use either Account or Accounts (or both) attributes to reference
// accounts. Each time all accounts (regardless which attribute) are
// considered.
type Auth struct {
	// Account represents an authentication of a single caller.
	Account paychan.AccountID

	// Accounts represents an authentication of multiple accounts.
	Accounts []paychan.AccountID
}

func (a *Auth) GetAccounts(paychan.Context) []paychan.AccountID {
	if a.Account != "" {
		return append(a.Accounts, a.Account)
	}
	return a.Accounts
}

func (a *Auth) HasAccount(ctx paychan.Context, acct paychan.AccountID) bool {
	for _, s := range a.GetAccounts(ctx) {
		if acct.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve accounts.
type CtxAuth struct {
	// Key used to set and retrieve accounts from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetAccounts(ctx paychan.Context, accts ...paychan.AccountID) paychan.Context {
	return context.WithValue(ctx, a.Key, accts)
}

func (a *CtxAuth) GetAccounts(ctx paychan.Context) []paychan.AccountID {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	accts, ok := val.([]paychan.AccountID)
	if !ok {
		panic(fmt.Sprintf("instead of []paychan.AccountID got %T", ctx.Value(a.Key)))
	}
	return accts
}

func (a *CtxAuth) HasAccount(ctx paychan.Context, acct paychan.AccountID) bool {
	for _, s := range a.GetAccounts(ctx) {
		if acct.Equals(s) {
			return true
		}
	}
	return false
}
