package orm

import (
	"bytes"
	"sort"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// MultiRef is the sorted set of primary keys a non unique index keeps
// under one indexed value, for example every vault of one avatar
// collection.
type MultiRef struct {
	Refs [][]byte `json:"refs"`
}

var _ Model = (*MultiRef)(nil)

func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	var m MultiRef
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// Add inserts ref keeping the set sorted. A ref already present is an
// ErrDuplicate.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.search(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove drops ref. A missing ref is an ErrNotFound.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// search returns the position of ref, or where it belongs when missing.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

func (m *MultiRef) Validate() error {
	return nil
}

func (m *MultiRef) Copy() Model {
	refs := make([][]byte, len(m.Refs))
	for i, r := range m.Refs {
		refs[i] = append([]byte(nil), r...)
	}
	return &MultiRef{Refs: refs}
}

func (m *MultiRef) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}
