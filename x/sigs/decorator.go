// Package sigs verifies transaction signatures and keeps a sequence per
// signer against replays. Verified signers are made available to every
// handler through Authenticate.
package sigs

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// signatureVerifyCost is charged for every verified signature.
const signatureVerifyCost = 500

// RegisterQuery exposes the signer sequences under "/auth".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a SignedTx and stores the signers
// in the context. Transactions that cannot carry signatures pass through.
type Decorator struct {
	allowMissingSigs bool
}

var _ custody.Decorator = Decorator{}

// NewDecorator requires at least one signature on every SignedTx.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through. Handlers still
// reject them when they need a caller.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	ctx, err := d.authenticate(ctx, store, stx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(len(stx.GetSignatures()) * signatureVerifyCost)
	return res, nil
}

func (d Decorator) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	ctx, err := d.authenticate(ctx, store, stx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) authenticate(ctx custody.Context, store custody.KVStore, stx SignedTx) (custody.Context, error) {
	signers, err := verifyTxSignatures(store, stx, custody.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	custody.GetLogger(ctx).Debug("verified signatures", "count", len(signers))
	return withSigners(ctx, signers), nil
}
