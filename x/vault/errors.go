package vault

import (
	"github.com/easlabs/custody/errors"
)

// x/vault reserves 500 ~ 509.
var (
	ErrNotOwner      = errors.Register(500, "Not the owner")
	ErrAlreadyActive = errors.Register(501, "vault already active")
	ErrNotVaultOwner = errors.Register(502, "caller is not the vault owner")

	ErrInsufficientAllowance = errors.Register(503, "insufficient allowance")
)
