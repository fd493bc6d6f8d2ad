package x

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// Authenticator reports which conditions signed the current transaction.
// Handlers receive one so that the signature scheme stays pluggable.
type Authenticator interface {
	// GetConditions returns the fulfilled conditions, main signer first.
	GetConditions(custody.Context) []custody.Condition
	// HasAddress is true when a fulfilled condition controls addr.
	HasAddress(ctx custody.Context, addr custody.Address) bool
}

// MultiAuth accepts the conditions of every wrapped Authenticator.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth combines authenticators. Conditions keep the order of impls.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

func (m MultiAuth) GetConditions(ctx custody.Context) []custody.Condition {
	var res []custody.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// Caller returns the address of the main signer. Unsigned transactions are
// rejected with ErrUnauthorized.
func Caller(ctx custody.Context, auth Authenticator) (custody.Address, error) {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	return conds[0].Address(), nil
}
