package sigs

import (
	"github.com/easlabs/custody/errors"
)

// x/sigs reserves 700 ~ 709.
var (
	// ErrInvalidSequence is returned when the signature nonce does not
	// match the expected sequence of the signer.
	ErrInvalidSequence = errors.Register(700, "invalid sequence number")
)
