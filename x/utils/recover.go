package utils

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// Recovery turns a panic raised further down the stack into ErrPanic, so
// that a faulty handler fails its transaction instead of halting the node.
// The panic is logged with the path of the message being processed.
type Recovery struct{}

var _ custody.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (_ *custody.CheckResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (_ *custody.DeliverResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}

func logPanic(ctx custody.Context, tx custody.Tx, err *error) {
	if !errors.ErrPanic.Is(*err) {
		return
	}
	path := "unknown"
	if tx != nil {
		if msg, e := tx.GetMsg(); e == nil && msg != nil {
			path = msg.Path()
		}
	}
	custody.GetLogger(ctx).Error("handler panic", "path", path, "err", *err)
}
