/*
Package utils provides decorators shared by all applications: panic
recovery, transaction logging and savepoints that make every transaction
atomic.
*/
package utils

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// Savepoint runs the rest of the stack on a cache of the store and writes
// the cache back only when no error is returned. A failed vault activation
// therefore leaves no partial transfer behind.
//
// Placing a Savepoint below the signature decorator on deliver keeps the
// sequence increment of a failed transaction.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ custody.Decorator = Savepoint{}

// NewSavepoint is inactive until OnCheck or OnDeliver is called.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	var res *custody.CheckResult
	err := atomically(s.onCheck, store, func(db custody.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	var res *custody.DeliverResult
	err := atomically(s.onDeliver, store, func(db custody.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically runs fn on a cache of store when enabled and the store can
// be cached. Otherwise fn runs on store directly.
func atomically(enabled bool, store custody.KVStore, fn func(custody.KVStore) error) error {
	cstore, ok := store.(custody.CacheableKVStore)
	if !enabled || !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "writing savepoint")
}
