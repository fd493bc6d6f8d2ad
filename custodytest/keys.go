package custodytest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a unique condition that can be used as an owner,
// a vault or any other actor in tests.
func NewCondition() custody.Condition {
	return custody.NewCondition("custodytest", "seq", SequenceID(atomic.AddUint64(&seq, 1)))
}

var seq uint64

// SequenceID returns the big endian encoding of n, the same encoding as
// used by orm.Sequence.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) custody.Address {
	t.Helper()

	addr, err := custody.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
