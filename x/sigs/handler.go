package sigs

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
	"github.com/easlabs/custody/x"
)

const bumpSequenceCost = 0

// RegisterRoutes registers handlers for message processing.
func RegisterRoutes(r custody.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, &bumpSequenceHandler{
		auth: auth,
		b:    NewBucket(),
	})
}

type bumpSequenceHandler struct {
	auth x.Authenticator
	b    Bucket
}

func (h *bumpSequenceHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: bumpSequenceCost}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	user, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// The decorator already incremented the sequence by one.
	user.Sequence += int64(msg.Increment) - 1

	obj := orm.NewRecord(user.Pubkey.Address(), user)
	if err := h.b.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "cannot save user")
	}
	return &custody.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	obj, err := h.b.Get(db, caller)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load user")
	}
	user := AsUser(obj)
	if user == nil {
		return nil, nil, errors.Wrap(errors.ErrNotFound, "signer has no sequence")
	}
	return user, &msg, nil
}
