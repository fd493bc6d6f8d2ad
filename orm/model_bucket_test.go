package orm

import (
	"testing"

	"github.com/easlabs/custody/custodytest/assert"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/store"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	key, err := b.Put(db, []byte("c1"), newCounter("alice", 1))
	assert.Nil(t, err)
	assert.Equal(t, []byte("c1"), key)

	var c1 counter
	assert.Nil(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(1), c1.Count)
	assert.Nil(t, b.Has(db, []byte("c1")))

	assert.Nil(t, b.Delete(db, []byte("c1")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("unknown")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("c1"), &c1))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("c1")))
}

func TestModelBucketSequenceKeys(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	k1, err := b.Put(db, nil, newCounter("alice", 1))
	assert.Nil(t, err)
	k2, err := b.Put(db, nil, newCounter("bob", 2))
	assert.Nil(t, err)

	assert.Equal(t, EncodeSequence(1), k1)
	assert.Equal(t, EncodeSequence(2), k2)
	assert.Nil(t, ValidateSequence(k2))
}

func TestModelBucketRejects(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	_, err := b.Put(db, []byte("c1"), newCounter("alice", -1))
	assert.IsErr(t, errors.ErrInput, err)

	_, err = b.Put(db, []byte("c1"), &MultiRef{})
	assert.IsErr(t, errors.ErrType, err)

	_, err = b.Put(db, []byte("c1"), &counter{Count: 1})
	assert.IsErr(t, errors.ErrSchema, err)
}

func TestModelBucketByIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{}, WithIndex("owner", counterOwner, false))

	_, err := b.Put(db, []byte("a1"), newCounter("alice", 1))
	assert.Nil(t, err)
	_, err = b.Put(db, []byte("a2"), newCounter("alice", 2))
	assert.Nil(t, err)
	_, err = b.Put(db, []byte("b1"), newCounter("bob", 3))
	assert.Nil(t, err)

	var found []counter
	keys, err := b.ByIndex(db, "owner", []byte("alice"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a1"), []byte("a2")}, keys)
	assert.Equal(t, 2, len(found))
	assert.Equal(t, int64(1), found[0].Count)
	assert.Equal(t, int64(2), found[1].Count)

	// moving a counter to another owner updates the index
	_, err = b.Put(db, []byte("a2"), newCounter("bob", 2))
	assert.Nil(t, err)
	var ptrs []*counter
	keys, err = b.ByIndex(db, "owner", []byte("bob"), &ptrs)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a2"), []byte("b1")}, keys)

	assert.Nil(t, b.Delete(db, []byte("a1")))
	var none []counter
	keys, err = b.ByIndex(db, "owner", []byte("alice"), &none)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	_, err = b.ByIndex(db, "unknown", []byte("alice"), &none)
	assert.IsErr(t, ErrInvalidIndex, err)
}

func TestUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{}, WithIndex("owner", counterOwner, true))

	_, err := b.Put(db, []byte("a1"), newCounter("alice", 1))
	assert.Nil(t, err)
	_, err = b.Put(db, []byte("a2"), newCounter("alice", 2))
	assert.IsErr(t, errors.ErrDuplicate, err)

	// updating the same entity keeps the index consistent
	_, err = b.Put(db, []byte("a1"), newCounter("alice", 5))
	assert.Nil(t, err)

	var found []counter
	_, err = b.ByIndex(db, "owner", []byte("alice"), &found)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(found))
	assert.Equal(t, int64(5), found[0].Count)
}
