package token

import (
	"github.com/easlabs/custody/errors"
)

// x/token reserves 300 ~ 309.
var (
	ErrInsufficientAllowance = errors.Register(300, "ERC20: insufficient allowance")
	ErrInsufficientBalance   = errors.Register(301, "ERC20: transfer amount exceeds balance")
)
