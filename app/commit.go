package app

import (
	"regexp"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

// CommitStore handles loading from a CommitKVStore and maintaining the
// cache all operations are delivered to until the next commit.
type CommitStore struct {
	committed paychan.CommitKVStore
	deliver   paychan.KVCacheWrap
}

// NewCommitStore loads the latest version of the given store and sets up
// the deliver cache.
func NewCommitStore(store paychan.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (paychan.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it to disk.
// It then sets up a new deliver cache.
func (cs *CommitStore) Commit() (paychan.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return paychan.CommitID{}, err
	}
	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}
	cs.deliver = cs.committed.CacheWrap()
	return res, nil
}

// DeliverStore returns the store all state changes must be written to.
func (cs *CommitStore) DeliverStore() paychan.CacheableKVStore {
	return cs.deliver
}

// ReadStore returns a read only view of the last committed state.
func (cs *CommitStore) ReadStore() paychan.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// _app: is a prefix for host internal data
const chainIDKey = "_app:chainID"

var isChainID = regexp.MustCompile(`^[a-zA-Z0-9_.-]{4,20}$`).MatchString

func loadChainID(db paychan.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(db paychan.KVStore, chainID string) error {
	if !isChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := db.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := db.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
