package orm

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// Index maintains a secondary lookup from a value computed for each object
// to the primary keys of all objects that produced it.
type Index interface {
	custody.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It must be called whenever any of the
	// bucket entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	Update(db custody.KVStore, prev Object, save Object) error

	// GetAt returns the primary keys of all objects indexed under value.
	GetAt(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given object. Returning a
// nil key excludes the object from the index.
type Indexer func(Object) ([]byte, error)

// compactIndex stores all references of an indexed value under a single
// key. A unique index stores the primary key directly, otherwise a MultiRef.
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex constructs an index.
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     []byte(compactIdxPrefix + name + ":"),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

func (i compactIndex) Update(db custody.KVStore, prev Object, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}

	var oldKey, newKey []byte
	var err error
	if prev != nil {
		if oldKey, err = i.index(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if newKey, err = i.index(save); err != nil {
			return err
		}
	}
	if prev != nil && save != nil {
		if string(prev.Key()) != string(save.Key()) {
			return errors.Wrap(errors.ErrImmutable, "primary key changed")
		}
		if string(oldKey) == string(newKey) {
			return nil
		}
	}

	if oldKey != nil {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	if newKey != nil {
		if err := i.insert(db, newKey, save.Key()); err != nil {
			return err
		}
	}
	return nil
}

func (i compactIndex) insert(db custody.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(dbkey, pk)
	}

	refs := new(MultiRef)
	if cur != nil {
		if err := refs.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, raw)
}

func (i compactIndex) remove(db custody.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s", i.name)
	}

	if i.unique {
		if string(cur) != string(pk) {
			return errors.Wrapf(errors.ErrState, "index %s points to another key", i.name)
		}
		return db.Delete(dbkey)
	}

	refs := new(MultiRef)
	if err := refs.Unmarshal(cur); err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(dbkey)
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, raw)
}

func (i compactIndex) GetAt(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	cur, err := db.Get(i.indexKey(value))
	if err != nil || cur == nil {
		return nil, err
	}
	if i.unique {
		return [][]byte{cur}, nil
	}
	refs := new(MultiRef)
	if err := refs.Unmarshal(cur); err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query returns the objects referenced by the index value in data. The
// prefix mod is not supported.
func (i compactIndex) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	if mod != custody.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod: %q", mod)
	}
	refs, err := i.GetAt(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]custody.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, custody.Pair(key, value))
	}
	return res, nil
}
