/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* A key within a bucket is prefixed with "<bucket name>:".
* Easy queries for one and iteration.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB. It stores raw values, use
// ModelBucket for typed access.
type Bucket struct {
	name   string
	prefix []byte
}

var _ paychan.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name this bucket was created with.
func (b Bucket) Name() string {
	return b.name
}

// Register registers this Bucket for queries. You can define a name here
// for queries, which is different than the bucket name used to prefix the
// data.
func (b Bucket) Register(name string, r paychan.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db paychan.ReadOnlyKVStore, mod string, data []byte) ([]paychan.Model, error) {
	switch mod {
	case paychan.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []paychan.Model{paychan.Pair(key, value)}, nil
	case paychan.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns the raw value stored under given key or nil.
func (b Bucket) Get(db paychan.ReadOnlyKVStore, key []byte) ([]byte, error) {
	return db.Get(b.DBKey(key))
}

// Has returns true if a value is stored under given key.
func (b Bucket) Has(db paychan.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Set writes a raw value under given key.
func (b Bucket) Set(db paychan.KVStore, key, value []byte) error {
	return db.Set(b.DBKey(key), value)
}

// Delete will remove the value at a key
func (b Bucket) Delete(db paychan.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Iterator returns an iterator over all keys of this bucket that start with
// given prefix. Returned keys include the bucket prefix.
func (b Bucket) Iterator(db paychan.ReadOnlyKVStore, prefix []byte, reverse bool) (paychan.Iterator, error) {
	start, end := prefixRange(b.DBKey(prefix))
	if reverse {
		return db.ReverseIterator(start, end)
	}
	return db.Iterator(start, end)
}
