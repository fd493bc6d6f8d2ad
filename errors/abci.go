package errors

import (
	"fmt"
)

const (
	// SuccessABCICode is returned for transactions and queries without error.
	SuccessABCICode = 0

	// Errors without a registered code are internal. Outside debug mode
	// their message is replaced by internalABCILog.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of the ABCI response reporting err.
//
// Registered errors expose their code and message. Any other error is
// internal and reported with code 1 and a generic message, so storage or
// encoding details never reach a client. A recovered panic only exposes
// its registered description. Debug mode reports every message in full,
// stack traces included.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case ErrPanic.Is(err):
		return ErrPanic.code, ErrPanic.desc
	case code == internalABCICode:
		return internalABCICode, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first registered error found by
// unwrapping err, or internalABCICode.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}
