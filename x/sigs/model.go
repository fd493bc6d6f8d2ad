package sigs

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/crypto"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
)

// BucketName is the bucket holding signer nonces.
const BucketName = "sigs"

// UserData is the nonce state of a signer. It is stored under the address of
// the public key.
type UserData struct {
	Metadata *custody.Metadata `json:"metadata"`
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if seq > 0 && u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

func (u *UserData) Copy() orm.Model {
	return &UserData{
		Metadata: u.Metadata.Copy(),
		Sequence: u.Sequence,
		Pubkey:   u.Pubkey,
	}
}

func (u *UserData) Marshal() ([]byte, error) {
	return custody.Encode(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return custody.Decode(raw, u)
}

// maxSequence is the largest nonce a JavaScript client can represent.
const maxSequence = 1<<53 - 1

// CheckAndIncrementSequence consumes nonce expected. It fails when the
// signer is at another nonce or the next one would leave the valid range.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	switch next := u.Sequence + 1; {
	case u.Sequence != expected:
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	case next <= 0 || next > maxSequence:
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	default:
		u.Sequence = next
		return nil
	}
}

// AsUser returns the UserData held by obj, or nil when obj is empty.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser returns a fresh nonce record keyed by the address of pubkey. A
// nil pubkey gives the bucket prototype.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	user := &UserData{
		Metadata: &custody.Metadata{Schema: 1},
		Pubkey:   pubkey,
	}
	if pubkey == nil {
		return orm.NewRecord(nil, user)
	}
	return orm.NewRecord(pubkey.Address(), user)
}

// Bucket holds one UserData per signer address.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewUser(nil))}
}

// GetOrCreate loads the record of pubkey. A signer seen for the first time
// gets a new record at sequence zero, which is not saved yet.
func (b Bucket) GetOrCreate(db custody.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil || obj != nil {
		return obj, err
	}
	return NewUser(pubkey), nil
}
