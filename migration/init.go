package migration

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ paychan.Initializer = Initializer{}

// FromGenesis initializes the schema version of all packages listed in the
// "initialize_schema" section, as well as of this package.
func (Initializer) FromGenesis(opts paychan.Options, db paychan.KVStore) error {
	var pkgs []string
	if err := opts.ReadOptions("initialize_schema", &pkgs); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot read initialize_schema")
	}
	if err := InitPkg(db, append(pkgs, pkgName)...); err != nil {
		return errors.Wrap(err, "init schema")
	}
	return nil
}
