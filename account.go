package paychan

import (
	"regexp"

	"github.com/iov-one/paychan/errors"
)

const (
	// MinAccountIDLen and MaxAccountIDLen bound the length of an account
	// identifier.
	MinAccountIDLen = 2
	MaxAccountIDLen = 64
)

var isAccountID = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`).MatchString

// AccountID is the human readable identifier of an account, for example
// "alice.near". Identifiers are made of lowercase alphanumeric parts
// separated with "-", "_" or ".".
type AccountID string

// Validate returns an error if this is not a well formed account identifier.
func (a AccountID) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "account id")
	}
	if len(a) < MinAccountIDLen || len(a) > MaxAccountIDLen {
		return errors.Wrapf(errors.ErrInput, "account id length must be between %d and %d", MinAccountIDLen, MaxAccountIDLen)
	}
	if !isAccountID(string(a)) {
		return errors.Wrapf(errors.ErrInput, "invalid account id %q", string(a))
	}
	return nil
}

// Equals returns true if both identifiers represent the same account.
func (a AccountID) Equals(b AccountID) bool {
	return a == b
}

func (a AccountID) String() string {
	return string(a)
}
