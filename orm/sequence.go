package orm

import (
	"encoding/binary"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// Sequence is a persistent counter stored under "_s.<bucket>:<name>". Its
// values are encoded big endian, so byte order matches numeric order and
// they can serve as ascending primary keys for vaults and collections.
type Sequence struct {
	id []byte
}

func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// NextVal advances the counter and returns the new value encoded.
func (s *Sequence) NextVal(db custody.KVStore) ([]byte, error) {
	_, raw, err := s.next(db)
	return raw, err
}

// NextInt advances the counter and returns the new value.
func (s *Sequence) NextInt(db custody.KVStore) (uint64, error) {
	val, _, err := s.next(db)
	return val, err
}

// Latest is the last value handed out, zero for an unused sequence.
func (s *Sequence) Latest(db custody.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw), nil
}

func (s *Sequence) next(db custody.KVStore) (uint64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	if val == ^uint64(0) {
		return 0, nil, errors.Wrapf(errors.ErrOverflow, "sequence %s", s.id)
	}
	raw := EncodeSequence(val + 1)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, err
	}
	return val + 1, raw, nil
}

// DecodeSequence reads an encoded sequence value. Anything that is not 8
// bytes long decodes to zero.
func DecodeSequence(raw []byte) uint64 {
	if len(raw) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(raw)
}

func EncodeSequence(val uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, val)
	return raw
}
