package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when a required signature is missing,
	// for example the owner's on an activation.
	ErrUnauthorized = Register(2, "unauthorized")

	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for a message that no handler can process.
	ErrMsg = Register(4, "invalid message")

	// ErrDuplicate is returned when a unique index already holds the key.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that correct wiring never reaches.
	ErrHuman = Register(7, "coding error")

	// ErrImmutable is returned when a write-once value would change.
	ErrImmutable = Register(8, "cannot be modified")

	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when a model is not in the state an operation
	// requires.
	ErrState = Register(10, "invalid state")

	ErrType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when an account cannot cover a
	// payment.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrAmount is returned for amounts that are out of range, like a zero
	// escrow cost.
	ErrAmount = Register(13, "invalid amount")

	ErrInput = Register(14, "invalid input")

	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrSchema is returned when the metadata schema version of a model or
	// message is not supported.
	ErrSchema = Register(18, "invalid schema")

	ErrDatabase = Register(19, "database")

	// ErrIteratorDone ends every iteration. It is not a failure.
	ErrIteratorDone = Register(20, "iterator done")

	// ErrPanic wraps recovered panics. Its message is never sent to a
	// client outside debug mode.
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error. Codes are unique and reusing one panics,
// so Register belongs in package level var blocks only.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// usedCodes starts with code 1, which is reserved for unregistered errors.
var usedCodes = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: internalABCILog},
}

// Error is a registered root error. Errors returned at runtime wrap one, so
// callers test them with Is and clients receive its code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// Is reports whether err is kind or wraps it. A collection matches when
// any of its errors does. A nil kind only matches a nil error.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == kind {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				if kind.Is(e) {
					return true
				}
			}
			return false
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap prefixes err with description and records a stack trace at the
// innermost wrap. A nil err yields nil. Errors that do not wrap a
// registered error are reported to clients as internal.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace with %+v and the message otherwise.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", e.msg, e.parent)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover turns a panic into ErrPanic stored in err. It only works when
// deferred directly.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found while unwrapping err.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// isNilErr also treats a typed nil pointer, such as (*Error)(nil), as nil.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}
