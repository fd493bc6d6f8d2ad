package app

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// CommitStore keeps the committed custody state together with the two
// caches transactions run against within a block. Check and deliver never
// see each other's writes. Only deliver reaches disk on Commit.
type CommitStore struct {
	committed custody.CommitKVStore
	deliver   custody.KVCacheWrap
	check     custody.KVCacheWrap
}

// NewCommitStore loads the latest version of store. A store that cannot be
// loaded leaves the node unable to start, so it panics.
func NewCommitStore(store custody.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.resetCaches()
	return cs
}

func (cs *CommitStore) resetCaches() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and hash of the last commit.
func (cs *CommitStore) CommitInfo() (custody.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the deliver cache and opens fresh caches on top of the
// new version. Pending check state is dropped.
func (cs *CommitStore) Commit() (custody.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "flush deliver")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.resetCaches()
	return id, nil
}

func (cs *CommitStore) CheckStore() custody.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() custody.CacheableKVStore {
	return cs.deliver
}

// chainIDKey lives under the "_cu:" prefix reserved for node data, apart
// from every extension bucket.
const chainIDKey = "_cu:chainID"

// mustLoadChainID returns the stored chain id, or "" before genesis.
func mustLoadChainID(kv custody.ReadOnlyKVStore) string {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID writes the chain id once, at genesis.
func saveChainID(kv custody.KVStore, chainID string) error {
	if !custody.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	key := []byte(chainIDKey)
	switch exists, err := kv.Has(key); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis")
	}
	if err := kv.Set(key, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
