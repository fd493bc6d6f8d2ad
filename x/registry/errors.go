package registry

import (
	"github.com/easlabs/custody/errors"
)

// x/registry reserves 600 ~ 609.
var (
	ErrAlreadyProvisioned = errors.Register(600, "vault already provisioned")
)
