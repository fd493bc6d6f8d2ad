package avatar

import (
	"encoding/binary"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x"
)

const (
	createCollectionCost int64 = 100
	mintCost             int64 = 50
	approveCost          int64 = 10
	transferCost         int64 = 10
)

// RegisterQuery registers avatar buckets for querying.
func RegisterQuery(qr custody.QueryRouter) {
	NewCollectionBucket().Register("collections", qr)
	NewAvatarBucket().Register("avatars", qr)
}

// RegisterRoutes registers handlers for avatar message processing.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&CreateCollectionMsg{}, &createCollectionHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MintMsg{}, &mintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ApproveMsg{}, &approveHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, &transferHandler{auth: auth, ctrl: ctrl})
}

type createCollectionHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *createCollectionHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: createCollectionCost}, nil
}

func (h *createCollectionHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreateCollection(db, &Collection{
		Metadata: &custody.Metadata{Schema: 1},
		Name:     msg.Name,
		Symbol:   msg.Symbol,
	})
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("collection created", "collection", addr, "symbol", msg.Symbol)
	return &custody.DeliverResult{Data: addr}, nil
}

func (h *createCollectionHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CreateCollectionMsg, error) {
	var msg CreateCollectionMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := x.Caller(ctx, h.auth); err != nil {
		return nil, err
	}
	return &msg, nil
}

type mintHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *mintHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: mintCost}, nil
}

func (h *mintHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.ctrl.Mint(db, msg.Collection, owner)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Debug("avatar minted", "collection", msg.Collection, "id", id, "owner", owner)
	return &custody.DeliverResult{Data: encodeID(id)}, nil
}

func (h *mintHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*MintMsg, custody.Address, error) {
	var msg MintMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if _, err := h.ctrl.Collection(db, msg.Collection); err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

type approveHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *approveHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: approveCost}, nil
}

func (h *approveHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Approve(db, msg.Collection, caller, msg.Spender, msg.ID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h *approveHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ApproveMsg, custody.Address, error) {
	var msg ApproveMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := x.Caller(ctx, h.auth); err != nil {
		return nil, nil, err
	}
	owner, err := h.ctrl.OwnerOf(db, msg.Collection, msg.ID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, nil, errors.Wrap(ErrNotOwnerOrApproved, "approve")
	}
	return &msg, owner, nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *transferHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	from := msg.From
	if len(from) == 0 {
		from = caller
	}
	if err := h.ctrl.TransferFrom(db, msg.Collection, caller, from, msg.Recipient, msg.ID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*TransferMsg, custody.Address, error) {
	var msg TransferMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	ok, err := h.ctrl.IsApprovedOrOwner(db, msg.Collection, caller, msg.ID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.Wrapf(ErrNotOwnerOrApproved, "avatar %d", msg.ID)
	}
	return &msg, caller, nil
}

func encodeID(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}
