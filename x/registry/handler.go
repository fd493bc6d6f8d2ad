package registry

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/gconf"
	"github.com/easlabs/custody/x"
)

const provisionVaultCost int64 = 100

// RegisterQuery registers owner to vault references under "/registry".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("registry", qr)
}

// RegisterRoutes registers handlers for vault provisioning and for the
// registry configuration updates.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, reg *Registry) {
	r.Handle(&ProvisionVaultMsg{}, &provisionVaultHandler{auth: auth, reg: reg})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth, nil))
}

type provisionVaultHandler struct {
	auth x.Authenticator
	reg  *Registry
}

func (h *provisionVaultHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: provisionVaultCost}, nil
}

func (h *provisionVaultHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.reg.Provision(db, owner)
	if err != nil {
		return nil, err
	}
	custody.GetLogger(ctx).Info("vault provisioned", "owner", owner, "vault", addr)
	return &custody.DeliverResult{Data: addr}, nil
}

func (h *provisionVaultHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (custody.Address, error) {
	var msg ProvisionVaultMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	owner, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, err
	}
	existing, err := h.reg.Resolve(db, owner)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Wrapf(ErrAlreadyProvisioned, "owner %s", owner)
	}
	return owner, nil
}
