package x

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// Validater is any struct that can be validated.
// Not the same as a Validator, which votes on the blocks.
type Validater interface {
	Validate() error
}

// ValidateAmount returns an error if the amount is zero. Field is used to
// name the offending attribute.
func ValidateAmount(field string, amount uint64) error {
	if amount == 0 {
		return errors.Field(field, errors.ErrAmount, "must be greater than zero")
	}
	return nil
}

// ValidateAddress returns a field error if the address is not valid.
func ValidateAddress(field string, addr custody.Address) error {
	if addr == nil {
		return errors.Field(field, errors.ErrEmpty, "required")
	}
	return errors.Field(field, addr.Validate(), "invalid address")
}

// SafeAdd returns the sum of a and b or an error if the result does not
// fit into uint64.
func SafeAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}
