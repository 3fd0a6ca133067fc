package orm

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
// Models are serialized with the canonical codec.
type Model interface {
	Validate() error
}

// ModelBucket is implemented by buckets that operates on Models rather than
// raw bytes.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db paychan.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db paychan.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Model is validated first.
	Put(db paychan.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db paychan.KVStore, key []byte) error

	// PrefixScan returns an iterator over all models which primary key
	// starts with given prefix.
	PrefixScan(db paychan.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)

	// Register registers this bucket for queries.
	Register(name string, r paychan.QueryRouter)
}

// NewModelBucket returns a ModelBucket instance storing models under given
// bucket name.
func NewModelBucket(name string) ModelBucket {
	return &modelBucket{
		b: NewBucket(name),
	}
}

type modelBucket struct {
	b Bucket
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db paychan.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := mb.b.Get(db, key)
	if err != nil {
		return errors.Wrap(err, "cannot read")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := codec.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(err, "cannot decode %T", dest)
	}
	return nil
}

func (mb *modelBucket) Has(db paychan.ReadOnlyKVStore, key []byte) error {
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return errors.Wrap(err, "cannot read")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s:%s", mb.b.Name(), key)
	}
	return nil
}

func (mb *modelBucket) Put(db paychan.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := codec.Marshal(m)
	if err != nil {
		return err
	}
	if err := mb.b.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db paychan.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) PrefixScan(db paychan.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	itr, err := mb.b.Iterator(db, prefix, reverse)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &modelIterator{
		iterator:     itr,
		bucketPrefix: mb.b.DBKey(nil),
	}, nil
}

func (mb *modelBucket) Register(name string, r paychan.QueryRouter) {
	mb.b.Register(name, r)
}
