package migration

import (
	"encoding/binary"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/orm"
)

const pkgName = "migration"

// maxSchemaVersion bounds the version lookup.
const maxSchemaVersion = 10000

// Schema declares that given package is at given schema version.
type Schema struct {
	_       struct{} `cbor:",toarray"`
	Pkg     string   `json:"pkg"`
	Version uint32   `json:"version"`
}

var _ orm.Model = (*Schema)(nil)

// Validate ensures the schema is valid.
func (s *Schema) Validate() error {
	var errs error
	if s.Version < 1 {
		errs = errors.AppendField(errs, "Version", errors.Wrap(errors.ErrModel, "version must be greater than zero"))
	}
	if s.Pkg == "" {
		errs = errors.AppendField(errs, "Pkg", errors.Wrap(errors.ErrModel, "pkg is required"))
	}
	return errs
}

// schemaID returns a deterministic ID of this schema instance. Created IDs
// can be sorted using lexicographical order from the lowest to the highest
// version.
func schemaID(pkg string, version uint32) []byte {
	raw := make([]byte, len(pkg)+4)
	copy(raw, pkg)
	binary.BigEndian.PutUint32(raw[len(pkg):], version)
	return raw
}

// SchemaBucket stores the schema versions of all packages.
type SchemaBucket struct {
	b orm.ModelBucket
}

// NewSchemaBucket returns a bucket for schema versions.
func NewSchemaBucket() *SchemaBucket {
	return &SchemaBucket{
		b: orm.NewModelBucket("schema"),
	}
}

// MustInitPkg initialize schema versioning for given package names. This
// registers a version one schema.
// This function panics if not successful. It is safe to call this function
// many times as duplicate registrations are ignored.
func MustInitPkg(db paychan.KVStore, packageNames ...string) {
	if err := InitPkg(db, packageNames...); err != nil {
		panic(err)
	}
}

// InitPkg is like MustInitPkg but returns an error instead of panicking.
func InitPkg(db paychan.KVStore, packageNames ...string) error {
	b := NewSchemaBucket()
	for _, name := range packageNames {
		err := b.Create(db, &Schema{Pkg: name, Version: 1})
		// Duplicated initializations are ignored.
		if err != nil && !errors.ErrDuplicate.Is(err) {
			return errors.Wrap(err, name)
		}
	}
	return nil
}

// CurrentSchema returns the current version of the schema for a given package.
// It returns ErrNotFound if no schema version was registered for this package.
// Minimum schema version is 1.
func (b *SchemaBucket) CurrentSchema(db paychan.ReadOnlyKVStore, packageName string) (uint32, error) {
	for ver := uint32(1); ver < maxSchemaVersion; ver++ {
		switch err := b.b.Has(db, schemaID(packageName, ver)); {
		case err == nil:
			continue
		case !errors.ErrNotFound.Is(err):
			return 0, errors.Wrap(err, "bucket has")
		case ver == 1:
			return 0, errors.Wrap(errors.ErrNotFound, "not initialized")
		default:
			return ver - 1, nil
		}
	}
	return 0, errors.Wrap(errors.ErrState, "version too high")
}

// Create adds given schema instance to the store. The version must be the
// next one for the package.
func (b *SchemaBucket) Create(db paychan.KVStore, s *Schema) error {
	if err := b.validateNextSchema(db, s); err != nil {
		return err
	}
	return b.b.Put(db, schemaID(s.Pkg, s.Version), s)
}

// validateNextSchema returns an error if given Schema instance is does not
// represent the next valid schema version.
func (b *SchemaBucket) validateNextSchema(db paychan.ReadOnlyKVStore, next *Schema) error {
	ver, err := b.CurrentSchema(db, next.Pkg)
	if err != nil {
		if !errors.ErrNotFound.Is(err) {
			return errors.Wrap(err, "current schema")
		}
		if next.Version != 1 {
			return errors.Wrap(errors.ErrInput, "schema not initialized with version 1")
		}
		ver = 0
	}
	if ver+1 != next.Version {
		// Schema versioning is sequential and the numbers must be incrementing.
		return errors.Wrapf(errors.ErrDuplicate, "previous schema is %d", ver)
	}
	return nil
}

// RegisterQuery registers schema bucket for querying.
func RegisterQuery(qr paychan.QueryRouter) {
	NewSchemaBucket().b.Register("schema", qr)
}
