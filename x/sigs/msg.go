package sigs

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// BumpSequenceMsg increments the sequence of the signer by the given
// amount, invalidating any transaction signed with a lower nonce.
type BumpSequenceMsg struct {
	Metadata  *custody.Metadata `json:"metadata"`
	Increment uint32            `json:"increment"`
}

var _ custody.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return "sigs/bump_sequence"
}

func (msg *BumpSequenceMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", msg.Metadata.Validate())
	if msg.Increment < 1 {
		errs = errors.Append(errs, errors.Field("Increment", errors.ErrMsg, "increment must be greater than zero"))
	}
	if msg.Increment > 1000 {
		errs = errors.Append(errs, errors.Field("Increment", errors.ErrMsg, "increment must not be greater than 1000"))
	}
	return errs
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return custody.Encode(msg)
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, msg)
}
