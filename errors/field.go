package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a model field name to err, for example "EscrowCost" or
// "Metadata.Schema" for nested fields. A nil err yields nil, so validation
// code can wrap every check unconditionally.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the field error, if any, to errorsOrNil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	msg := fmt.Sprintf("field %q: ", err.field)
	if err.desc != "" {
		msg += err.desc + ": "
	}
	return msg + err.parent.Error()
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

type fielder interface {
	Field() string
}

// FieldErrors collects the errors reported for fieldName, searching
// through wrapped and appended errors.
func FieldErrors(err error, fieldName string) []error {
	if isNilErr(err) {
		return nil
	}
	if f, ok := err.(fielder); ok && f.Field() == fieldName {
		return []error{err}
	}
	switch e := err.(type) {
	case unpacker:
		var res []error
		for _, inner := range e.Unpack() {
			res = append(res, FieldErrors(inner, fieldName)...)
		}
		return res
	case causer:
		return FieldErrors(e.Cause(), fieldName)
	}
	return nil
}
