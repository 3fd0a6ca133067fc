package channel

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/orm"
)

const bucketName = "chan"

// Bucket keeps channels indexed by their id. Channels are never removed,
// Reset replaces a record with the settled placeholder.
type Bucket struct {
	b orm.ModelBucket
}

// NewBucket returns a bucket for storing channels.
func NewBucket() *Bucket {
	return &Bucket{b: orm.NewModelBucket(bucketName)}
}

// Register registers this bucket for queries under the "/channels" path.
func (b *Bucket) Register(qr paychan.QueryRouter) {
	b.b.Register("channels", qr)
}

// Exists returns true if a channel with given id was ever stored, settled
// or not.
func (b *Bucket) Exists(db paychan.ReadOnlyKVStore, id string) (bool, error) {
	switch err := b.b.Has(db, []byte(id)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// InsertNew stores a new channel. It fails with ErrDuplicate if the id was
// used before, even if that channel is settled.
func (b *Bucket) InsertNew(db paychan.KVStore, id string, ch *Channel) error {
	ok, err := b.Exists(db, id)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "channel %q", id)
	}
	return b.b.Put(db, []byte(id), ch)
}

// Get returns the channel with given id. It fails with ErrNotFound if
// there is no such channel.
func (b *Bucket) Get(db paychan.ReadOnlyKVStore, id string) (*Channel, error) {
	var ch Channel
	if err := b.b.One(db, []byte(id), &ch); err != nil {
		return nil, errors.Wrapf(err, "channel %q", id)
	}
	return &ch, nil
}

// Save updates an existing channel.
func (b *Bucket) Save(db paychan.KVStore, id string, ch *Channel) error {
	if err := b.b.Has(db, []byte(id)); err != nil {
		return errors.Wrapf(err, "channel %q", id)
	}
	return b.b.Put(db, []byte(id), ch)
}

// Reset replaces the channel with the settled placeholder. The id remains
// taken.
func (b *Bucket) Reset(db paychan.KVStore, id string) error {
	return b.Save(db, id, &Channel{})
}

// Iterate calls fn for every stored channel, in id order. Iteration stops
// at the first error.
func (b *Bucket) Iterate(db paychan.ReadOnlyKVStore, fn func(id string, ch *Channel) error) error {
	it, err := b.b.PrefixScan(db, nil, false)
	if err != nil {
		return err
	}
	defer it.Release()

	for it.Valid() {
		var ch Channel
		key, err := it.Load(&ch)
		if err != nil {
			return errors.Wrap(err, "load channel")
		}
		if err := fn(string(key), &ch); err != nil {
			return err
		}
		if err := it.Next(); err != nil {
			return errors.Wrap(err, "iterator")
		}
	}
	return nil
}
