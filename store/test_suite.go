package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/easlabs/custody/custodytest/assert"
	"github.com/easlabs/custody/errors"
)

// TestSuite holds the checks every CacheableKVStore backing the custody
// state must pass. Each store package runs it against its own constructor.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store together with a cleanup function.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite that runs against stores built by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// Pair builds a model, used to express expected query results.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// CacheLayers checks that a cache reads through to its parent and that
// its changes reach the parent on Write only.
func (s *TestSuite) CacheLayers(t *testing.T) {
	var (
		alice = []byte("vault:alice")
		bob   = []byte("vault:bob")
		carol = []byte("vault:carol")
	)

	cases := map[string]struct {
		parent []Op
		child  []Op
		write  bool
		// A nil value means the key must be missing.
		inChild  []Model
		inParent []Model
	}{
		"read through": {
			parent:   []Op{SetOp(alice, []byte("escrow"))},
			inChild:  []Model{Pair(alice, []byte("escrow")), Pair(bob, nil)},
			inParent: []Model{Pair(alice, []byte("escrow")), Pair(bob, nil)},
		},
		"discarded changes stay in the cache": {
			parent:   []Op{SetOp(alice, []byte("escrow"))},
			child:    []Op{SetOp(bob, []byte("self")), DelOp(alice)},
			inChild:  []Model{Pair(alice, nil), Pair(bob, []byte("self"))},
			inParent: []Model{Pair(alice, []byte("escrow")), Pair(bob, nil)},
		},
		"written changes reach the parent": {
			parent:   []Op{SetOp(alice, []byte("escrow")), SetOp(bob, []byte("inactive"))},
			child:    []Op{SetOp(alice, []byte("self")), DelOp(bob), SetOp(carol, []byte("inactive"))},
			write:    true,
			inChild:  []Model{Pair(alice, []byte("self")), Pair(bob, nil), Pair(carol, []byte("inactive"))},
			inParent: []Model{Pair(alice, []byte("self")), Pair(bob, nil), Pair(carol, []byte("inactive"))},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			applyOps(t, base, tc.parent)
			child := base.CacheWrap()
			applyOps(t, child, tc.child)
			assertModels(t, child, tc.inChild)

			if tc.write {
				assert.Nil(t, child.Write())
			} else {
				child.Discard()
			}
			assertModels(t, base, tc.inParent)
		})
	}
}

// Iterators checks range iteration over a cache merged with its parent,
// in both directions.
func (s *TestSuite) Iterators(t *testing.T) {
	a := Pair([]byte("a"), []byte("1"))
	b := Pair([]byte("b"), []byte("2"))
	c := Pair([]byte("c"), []byte("3"))
	d := Pair([]byte("d"), []byte("4"))
	a2 := Pair(a.Key, []byte("10"))
	b2 := Pair(b.Key, []byte("20"))

	inChild := randModels(40, 8, 24)
	inParent := randModels(40, 8, 24)
	merged := sortModels(append(append([]Model{}, inChild...), inParent...))
	parentOps := append(setOps(inParent...), delOps(randModels(10, 8, 24)...)...)

	cases := map[string]struct {
		parent     []Op
		child      []Op
		start, end []byte
		// Expected models in ascending key order.
		want []Model
	}{
		"child only": {
			child: setOps(c, a, b),
			want:  []Model{a, b, c},
		},
		"parent only": {
			parent: setOps(c, a, b),
			want:   []Model{a, b, c},
		},
		"parent and child": {
			parent: setOps(a, b),
			child:  setOps(c),
			want:   []Model{a, b, c},
		},
		"bounded range": {
			parent: setOps(a, b),
			child:  setOps(c, d),
			start:  b.Key,
			end:    d.Key,
			want:   []Model{b, c},
		},
		"child overwrites parent": {
			parent: setOps(a, b, c),
			child:  setOps(a2, b2, d),
			want:   []Model{a2, b2, c, d},
		},
		"child deletes hide parent": {
			parent: setOps(a, c, d),
			child:  delOps(a, b, d),
			want:   []Model{c},
		},
		"end before the only key": {
			parent: setOps(a, c, d),
			child:  delOps(a, b, d),
			end:    c.Key,
			want:   nil,
		},
		"random merge": {
			parent: parentOps,
			child:  setOps(inChild...),
			want:   merged,
		},
		"random merge bounded": {
			parent: parentOps,
			child:  setOps(inChild...),
			start:  merged[10].Key,
			end:    merged[50].Key,
			want:   merged[10:50],
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			applyOps(t, base, tc.parent)
			child := base.CacheWrap()
			applyOps(t, child, tc.child)

			it, err := child.Iterator(tc.start, tc.end)
			assert.Nil(t, err)
			assertIterates(t, it, tc.want)

			it, err = child.ReverseIterator(tc.start, tc.end)
			assert.Nil(t, err)
			assertIterates(t, it, reverse(tc.want))
		})
	}
}

func applyOps(t testing.TB, out SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(out))
	}
}

// assertModels checks Get and Has for every key. A nil value means the key
// must be missing.
func assertModels(t testing.TB, kv ReadOnlyKVStore, want []Model) {
	t.Helper()
	for _, m := range want {
		got, err := kv.Get(m.Key)
		assert.Nil(t, err)
		assert.Equal(t, m.Value, got)
		has, err := kv.Has(m.Key)
		assert.Nil(t, err)
		assert.Equal(t, m.Value != nil, has)
	}
}

func assertIterates(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, m := range want {
		key, value, err := it.Next()
		assert.Nil(t, err)
		if !bytes.Equal(m.Key, key) {
			t.Fatalf("key %d: want %X, got %X", i, m.Key, key)
		}
		assert.Equal(t, m.Value, value)
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want ErrIteratorDone, got %+v", err)
	}
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Pair(randBytes(keySize), randBytes(valueSize))
	}
	return models
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	_, _ = rand.Read(res)
	return res
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := append([]Model{}, models...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func setOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func delOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
