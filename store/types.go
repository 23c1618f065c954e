// Package store holds the in memory storage used by the application:
// btree cache wraps stacked over a committed store, plus helpers for
// iterators and batches. Persistent storage lives in store/iavl.
package store

import "github.com/iov-one/barter"

// Aliases so implementations in this package read naturally.
type (
	ReadOnlyKVStore  = barter.ReadOnlyKVStore
	SetDeleter       = barter.SetDeleter
	KVStore          = barter.KVStore
	Batch            = barter.Batch
	Iterator         = barter.Iterator
	CacheableKVStore = barter.CacheableKVStore
	KVCacheWrap      = barter.KVCacheWrap
	CommitKVStore    = barter.CommitKVStore
	CommitID         = barter.CommitID
	Model            = barter.Model
)
