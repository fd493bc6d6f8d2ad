package vault

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x"
)

const (
	activateEscrowCost      int64 = 200
	activateSelfCustodyCost int64 = 150
)

// MoveAssetPolicy decides if an avatar put under self custody is moved into
// the vault.
type MoveAssetPolicy func(db custody.ReadOnlyKVStore) (bool, error)

// KeepAsset is the policy that leaves self custody avatars with their owner.
func KeepAsset(custody.ReadOnlyKVStore) (bool, error) {
	return false, nil
}

// RegisterQuery registers vaults under "/vaults".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("vaults", qr)
}

// RegisterRoutes registers handlers for vault activation. A nil policy
// keeps self custody avatars with their owner.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl *Controller, moveAsset MoveAssetPolicy) {
	if moveAsset == nil {
		moveAsset = KeepAsset
	}
	r.Handle(&ActivateEscrowMsg{}, &activateEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(&ActivateSelfCustodyMsg{}, &activateSelfCustodyHandler{auth: auth, ctrl: ctrl, moveAsset: moveAsset})
}

type activateEscrowHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

func (h *activateEscrowHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: activateEscrowCost}, nil
}

func (h *activateEscrowHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	v, err := h.ctrl.ActivateWithEscrow(db, owner, msg.Vault, msg.AssetRegistry, msg.AssetID)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("vault activated",
		"vault", v.Address, "mode", v.Mode, "asset", msg.AssetID, "deposited", v.Deposited)
	return &custody.DeliverResult{}, nil
}

func (h *activateEscrowHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ActivateEscrowMsg, custody.Address, error) {
	var msg ActivateEscrowMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := authorize(ctx, db, h.auth, h.ctrl, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	return &msg, owner, nil
}

type activateSelfCustodyHandler struct {
	auth      x.Authenticator
	ctrl      *Controller
	moveAsset MoveAssetPolicy
}

func (h *activateSelfCustodyHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: activateSelfCustodyCost}, nil
}

func (h *activateSelfCustodyHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	move, err := h.moveAsset(db)
	if err != nil {
		return nil, errors.Wrap(err, "self custody policy")
	}
	v, err := h.ctrl.ActivateWithSelfCustody(db, owner, msg.Vault, msg.AssetRegistry, msg.AssetID, msg.Payment, move)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("vault activated",
		"vault", v.Address, "mode", v.Mode, "asset", msg.AssetID, "deposited", v.Deposited, "held", v.AssetHeld)
	return &custody.DeliverResult{}, nil
}

func (h *activateSelfCustodyHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ActivateSelfCustodyMsg, custody.Address, error) {
	var msg ActivateSelfCustodyMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := authorize(ctx, db, h.auth, h.ctrl, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	return &msg, owner, nil
}

// authorize returns the owner of an inactive vault if the owner signed the
// transaction.
func authorize(ctx custody.Context, db custody.ReadOnlyKVStore, auth x.Authenticator, ctrl *Controller, vault custody.Address) (custody.Address, error) {
	v, err := ctrl.Vault(db, vault)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, v.Owner) {
		return nil, errors.Wrapf(ErrNotVaultOwner, "vault %s", vault)
	}
	if v.Active {
		return nil, errors.Wrapf(ErrAlreadyActive, "vault %s is in %s mode", vault, v.Mode)
	}
	return v.Owner, nil
}
