package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored and
// nested collections are flattened.
//
// If no non-nil error is provided, nil is returned. If exactly one non-nil
// error is provided, that error is returned as it is.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// unpacker is implemented by errors that represent a collection of errors.
type unpacker interface {
	Unpack() []error
}

// multiErr is a collection of errors that is used as a single error
// instance, for example when validating all fields of a model.
type multiErr []error

var _ unpacker = multiErr(nil)

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(msgs, "\n\t"))
}

// Unpack returns all errors that this collection holds.
func (m multiErr) Unpack() []error {
	return m
}

// ABCICode returns the code of the first error, consistent with the fail
// fast approach used by most handlers.
func (m multiErr) ABCICode() uint32 {
	if len(m) == 0 {
		return SuccessABCICode
	}
	return abciCode(m[0])
}
