package migration

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

// Migrator is a function that migrates the stored state of a package from
// version N-1 to the version it is registered for.
type Migrator func(ctx paychan.Context, db paychan.KVStore) error

// NoModification is a migration function for versions that require no
// change of the stored data.
func NoModification(ctx paychan.Context, db paychan.KVStore) error {
	return nil
}

func newRegister() *register {
	return &register{
		handlers: make(map[pkgVersion]Migrator),
	}
}

type register struct {
	handlers map[pkgVersion]Migrator
}

// pkgVersion references a package at a given schema version.
type pkgVersion struct {
	pkg     string
	version uint32
}

func (r *register) MustRegister(pkg string, migrationTo uint32, fn Migrator) {
	if err := r.Register(pkg, migrationTo, fn); err != nil {
		panic(err)
	}
}

// Register adds a migration of given package to given version. Version one
// is the initial schema and cannot be migrated to. Migrations must be
// registered sequentially.
func (r *register) Register(pkg string, migrationTo uint32, fn Migrator) error {
	if pkg == "" {
		return errors.Wrap(errors.ErrInput, "package name is required")
	}
	if migrationTo < 2 {
		return errors.Wrap(errors.ErrInput, "migration version must be greater than one")
	}
	if fn == nil {
		return errors.Wrap(errors.ErrInput, "migration function is required")
	}
	pv := pkgVersion{pkg: pkg, version: migrationTo}
	if _, ok := r.handlers[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s:%d", pkg, migrationTo)
	}
	if migrationTo > 2 {
		if _, ok := r.handlers[pkgVersion{pkg: pkg, version: migrationTo - 1}]; !ok {
			return errors.Wrapf(errors.ErrInput, "missing migration %s:%d", pkg, migrationTo-1)
		}
	}
	r.handlers[pv] = fn
	return nil
}

// Migrator returns the migration function for given package and version.
func (r *register) Migrator(pkg string, migrationTo uint32) (Migrator, error) {
	fn, ok := r.handlers[pkgVersion{pkg: pkg, version: migrationTo}]
	if !ok {
		return nil, errors.Wrapf(errors.ErrSchema, "no migration to %s:%d", pkg, migrationTo)
	}
	return fn, nil
}

// reg is a globally available register instance that must be used during the
// runtime to register migration handlers.
// Register is declared as a separate type so that it can be tested without
// worrying about the global state.
var reg = newRegister()

// MustRegister registers a migration of given package in the global
// register. It panics on failure.
func MustRegister(pkg string, migrationTo uint32, fn Migrator) {
	reg.MustRegister(pkg, migrationTo, fn)
}
