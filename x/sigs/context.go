package sigs

import (
	"context"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/x"
)

type signersKey struct{}

// Only the Decorator may record signers.
func withSigners(ctx custody.Context, signers []custody.Condition) custody.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate reports the signers verified by the Decorator. Handlers
// that act on behalf of the caller receive it as their x.Authenticator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the verified signers in signature order. It is
// empty outside a signed transaction.
func (Authenticate) GetConditions(ctx custody.Context) []custody.Condition {
	signers, _ := ctx.Value(signersKey{}).([]custody.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
