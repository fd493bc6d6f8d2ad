package custodytest

import (
	"context"
	"fmt"

	"github.com/easlabs/custody"
)

// Auth authenticates a fixed set of conditions. Signer, when set, is
// reported first so that it becomes the caller.
type Auth struct {
	Signer  custody.Condition
	Signers []custody.Condition
}

func (a *Auth) GetConditions(custody.Context) []custody.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append([]custody.Condition{a.Signer}, a.Signers...)
}

func (a *Auth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the context under Key.
// Two CtxAuth with different keys do not see each other's conditions.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context in which conds are authenticated.
func (a *CtxAuth) SetConditions(ctx custody.Context, conds ...custody.Condition) custody.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx custody.Context) []custody.Condition {
	switch val := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []custody.Condition:
		return val
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, val))
	}
}

func (a *CtxAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []custody.Condition, addr custody.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
