package avatar

import (
	"github.com/easlabs/custody/errors"
)

// x/avatar reserves 400 ~ 409.
var (
	ErrNotOwnerOrApproved = errors.Register(400, "ERC721: caller is not token owner or approved")
	ErrIncorrectOwner     = errors.Register(401, "ERC721: transfer from incorrect owner")
)
