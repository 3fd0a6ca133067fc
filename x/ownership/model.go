package ownership

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/gconf"
)

const pkgName = "ownership"

// Ownership is the singleton fee record.
type Ownership struct {
	_       struct{}          `cbor:",toarray"`
	Owner   paychan.AccountID `json:"owner"`
	Fee     paychan.Fraction  `json:"fee"`
	Balance paychan.Amount    `json:"balance"`
}

var _ gconf.Configuration = (*Ownership)(nil)

// Validate ensures the ownership record is valid.
func (o *Ownership) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", o.Owner.Validate())
	if err := o.Fee.Validate(); err != nil {
		errs = errors.AppendField(errs, "Fee", err)
	} else if !o.Fee.IsLessThanOne() {
		errs = errors.Append(errs,
			errors.Field("Fee", errors.ErrInvalidFee, "fee must be less than one"))
	}
	return errs
}

// Load returns the ownership record or nil if none is set.
func Load(db gconf.ReadStore) (*Ownership, error) {
	var o Ownership
	switch err := gconf.Load(db, pkgName, &o); {
	case err == nil:
		return &o, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func removeOwnership(db gconf.Store) error {
	return gconf.Clear(db, pkgName)
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ paychan.Initializer = Initializer{}

// FromGenesis stores the ownership record if the genesis declares one. A
// missing record means no fee is collected.
func (Initializer) FromGenesis(opts paychan.Options, db paychan.KVStore) error {
	err := gconf.InitConfig(db, opts, pkgName, &Ownership{})
	if err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}
	return nil
}

func saveOwnership(db gconf.Store, o *Ownership) error {
	return gconf.Save(db, pkgName, o)
}
