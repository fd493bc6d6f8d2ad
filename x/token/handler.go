package token

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x"
)

const (
	createTokenCost int64 = 100
	faucetCost      int64 = 10
	approveCost     int64 = 10
	transferCost    int64 = 10
)

// RegisterQuery registers token buckets for querying.
func RegisterQuery(qr custody.QueryRouter) {
	NewTokenBucket().Register("tokens", qr)
	NewBalanceBucket().Register("balances", qr)
	NewAllowanceBucket().Register("allowances", qr)
}

// RegisterRoutes registers handlers for token message processing.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&CreateTokenMsg{}, &createTokenHandler{auth: auth, ctrl: ctrl})
	r.Handle(&FaucetMsg{}, &faucetHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ApproveMsg{}, &approveHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, &transferHandler{auth: auth, ctrl: ctrl})
}

type createTokenHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *createTokenHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: createTokenCost}, nil
}

func (h *createTokenHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.Create(db, &TokenInfo{
		Metadata:     &custody.Metadata{Schema: 1},
		Name:         msg.Name,
		Symbol:       msg.Symbol,
		Decimals:     msg.Decimals,
		FaucetAmount: msg.FaucetAmount,
	})
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("token created", "ledger", addr, "symbol", msg.Symbol)
	return &custody.DeliverResult{Data: addr}, nil
}

func (h *createTokenHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CreateTokenMsg, error) {
	var msg CreateTokenMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := x.Caller(ctx, h.auth); err != nil {
		return nil, err
	}
	return &msg, nil
}

type faucetHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *faucetHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: faucetCost}, nil
}

func (h *faucetHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount, err := h.ctrl.Faucet(db, msg.Ledger, signer)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Debug("faucet", "ledger", msg.Ledger, "account", signer, "amount", amount)
	return &custody.DeliverResult{}, nil
}

func (h *faucetHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*FaucetMsg, custody.Address, error) {
	var msg FaucetMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if _, err := h.ctrl.Token(db, msg.Ledger); err != nil {
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
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Approve(db, msg.Ledger, owner, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h *approveHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ApproveMsg, custody.Address, error) {
	var msg ApproveMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	if _, err := h.ctrl.Token(db, msg.Ledger); err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *transferHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, from, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	balance, err := h.ctrl.BalanceOf(db, msg.Ledger, from)
	if err != nil {
		return nil, err
	}
	if balance < msg.Amount {
		return nil, errors.Wrapf(ErrInsufficientBalance, "balance %d, requested %d", balance, msg.Amount)
	}
	return &custody.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, from, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Ledger, from, msg.Recipient, msg.Amount); err != nil {
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
	if _, err := h.ctrl.Token(db, msg.Ledger); err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}
