package registry

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
	"github.com/easlabs/custody/x/vault"
)

// VaultFactory creates inactive vaults.
type VaultFactory interface {
	Create(db custody.KVStore, owner, ledger custody.Address, escrowCost uint64) (*vault.Vault, error)
}

// Registry keeps track of the vault provisioned for every owner.
type Registry struct {
	refs    orm.ModelBucket
	factory VaultFactory
}

// NewRegistry returns a registry creating vaults with given factory.
func NewRegistry(factory VaultFactory) *Registry {
	return &Registry{
		refs:    NewBucket(),
		factory: factory,
	}
}

// Provision creates a vault for the owner using the configured ledger and
// escrow cost. An owner can provision only one vault.
func (r *Registry) Provision(db custody.KVStore, owner custody.Address) (custody.Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	switch err := r.refs.Has(db, owner); {
	case err == nil:
		return nil, errors.Wrapf(ErrAlreadyProvisioned, "owner %s", owner)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	v, err := r.factory.Create(db, owner, conf.Ledger, conf.EscrowCost)
	if err != nil {
		return nil, errors.Wrap(err, "create vault")
	}
	ref := &VaultRef{Metadata: &custody.Metadata{Schema: 1}, Vault: v.Address}
	if _, err := r.refs.Put(db, owner, ref); err != nil {
		return nil, errors.Wrap(err, "cannot store vault reference")
	}
	return v.Address, nil
}

// Resolve returns the vault provisioned for the owner, or nil if there is
// none.
func (r *Registry) Resolve(db custody.ReadOnlyKVStore, owner custody.Address) (custody.Address, error) {
	var ref VaultRef
	switch err := r.refs.One(db, owner, &ref); {
	case err == nil:
		return ref.Vault, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Config returns the current registry configuration.
func (r *Registry) Config(db custody.ReadOnlyKVStore) (*Configuration, error) {
	return loadConf(db)
}

// SelfCustodyMovesAsset reads the self custody policy from the
// configuration. It can be used as a vault.MoveAssetPolicy.
func (r *Registry) SelfCustodyMovesAsset(db custody.ReadOnlyKVStore) (bool, error) {
	conf, err := loadConf(db)
	if err != nil {
		return false, err
	}
	return conf.SelfCustodyMovesAsset, nil
}
