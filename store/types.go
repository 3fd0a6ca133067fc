package store

import "github.com/iov-one/paychan"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = paychan.ReadOnlyKVStore
	SetDeleter       = paychan.SetDeleter
	KVStore          = paychan.KVStore
	Batch            = paychan.Batch
	Iterator         = paychan.Iterator
	CacheableKVStore = paychan.CacheableKVStore
	KVCacheWrap      = paychan.KVCacheWrap
	CommitKVStore    = paychan.CommitKVStore
	CommitID         = paychan.CommitID
	Model            = paychan.Model
)

// Pair constructs a model from a key-value pair
var Pair = paychan.Pair
