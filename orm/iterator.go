package orm

import (
	"bytes"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/errors"
)

// ModelIterator walks over models stored in a bucket.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
type ModelIterator interface {
	// Valid returns true if there is an entity to load.
	Valid() bool

	// Load decodes the current entity into given destination and returns
	// its primary key.
	Load(dest Model) ([]byte, error)

	// Next moves the iterator to the next entity.
	Next() error

	// Release releases the Iterator.
	Release()
}

type modelIterator struct {
	// this is the raw KVStoreIterator
	iterator paychan.Iterator
	// this is the bucketPrefix to strip from each key
	bucketPrefix []byte
}

var _ ModelIterator = (*modelIterator)(nil)

func (i *modelIterator) Valid() bool {
	return i.iterator.Valid()
}

func (i *modelIterator) Load(dest Model) ([]byte, error) {
	key := i.iterator.Key()
	// since we use raw kvstore here, not Bucket, we must remove the bucket prefix manually
	if !bytes.HasPrefix(key, i.bucketPrefix) {
		return nil, errors.Wrapf(errors.ErrDatabase, "key with unexpected prefix: %X", key)
	}
	if err := codec.Unmarshal(i.iterator.Value(), dest); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling into %T", dest)
	}
	return key[len(i.bucketPrefix):], nil
}

func (i *modelIterator) Next() error {
	return i.iterator.Next()
}

func (i *modelIterator) Release() {
	i.iterator.Close()
}
