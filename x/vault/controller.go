package vault

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
)

// FungibleLedger is the token ledger payments are pulled from.
type FungibleLedger interface {
	BalanceOf(db custody.ReadOnlyKVStore, ledger, account custody.Address) (uint64, error)
	Allowance(db custody.ReadOnlyKVStore, ledger, owner, spender custody.Address) (uint64, error)
	TransferFrom(db custody.KVStore, ledger, spender, owner, recipient custody.Address, amount uint64) error
}

// AssetRegistry is the registry of avatars a vault can take custody of.
type AssetRegistry interface {
	OwnerOf(db custody.ReadOnlyKVStore, registry custody.Address, id uint64) (custody.Address, error)
	TransferFrom(db custody.KVStore, registry, caller, from, to custody.Address, id uint64) error
}

// Controller creates and activates vaults.
type Controller struct {
	bucket orm.ModelBucket
	ledger FungibleLedger
	assets AssetRegistry
}

// NewController returns a controller that moves funds and avatars using
// given collaborators.
func NewController(ledger FungibleLedger, assets AssetRegistry) *Controller {
	return &Controller{
		bucket: NewBucket(),
		ledger: ledger,
		assets: assets,
	}
}

// Create stores a new inactive vault owned by owner and bound to the
// ledger. The escrow cost must be positive.
func (c *Controller) Create(db custody.KVStore, owner, ledger custody.Address, escrowCost uint64) (*Vault, error) {
	if escrowCost == 0 {
		return nil, errors.Wrap(errors.ErrAmount, "escrow cost must be positive")
	}
	key, err := vaultSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}
	v := &Vault{
		Metadata:   &custody.Metadata{Schema: 1},
		Address:    Condition(key).Address(),
		Owner:      owner,
		Ledger:     ledger,
		EscrowCost: escrowCost,
	}
	if _, err := c.bucket.Put(db, v.Address, v); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}
	return v, nil
}

// Vault returns the vault stored under given address.
func (c *Controller) Vault(db custody.ReadOnlyKVStore, addr custody.Address) (*Vault, error) {
	var v Vault
	if err := c.bucket.One(db, addr, &v); err != nil {
		return nil, errors.Wrapf(err, "vault %s", addr)
	}
	return &v, nil
}

// VaultsOf returns all vaults owned by the account.
func (c *Controller) VaultsOf(db custody.ReadOnlyKVStore, owner custody.Address) ([]Vault, error) {
	var vaults []Vault
	if _, err := c.bucket.ByIndex(db, "owner", owner, &vaults); err != nil {
		return nil, err
	}
	return vaults, nil
}

// ActivateWithEscrow pulls the escrow cost from the owner and moves the
// avatar into the vault. The vault must be allowed to spend the escrow cost
// and to transfer the avatar on behalf of the owner.
func (c *Controller) ActivateWithEscrow(db custody.KVStore, caller, vault, registry custody.Address, id uint64) (*Vault, error) {
	v, err := c.activatable(db, caller, vault, registry)
	if err != nil {
		return nil, err
	}
	if err := c.payable(db, v, v.EscrowCost); err != nil {
		return nil, errors.Wrap(err, "escrow payment")
	}

	err = stage(db, func(db custody.KVStore) error {
		if err := c.ledger.TransferFrom(db, v.Ledger, v.Address, v.Owner, v.Address, v.EscrowCost); err != nil {
			return errors.Wrap(err, "escrow payment")
		}
		if err := c.assets.TransferFrom(db, registry, v.Address, v.Owner, v.Address, id); err != nil {
			return errors.Wrap(err, "escrow asset")
		}
		v.AssetRegistry = registry
		v.AssetID = id
		v.Deposited = v.EscrowCost
		v.Active = true
		v.Mode = Escrow
		v.AssetHeld = true
		if _, err := c.bucket.Put(db, v.Address, v); err != nil {
			return errors.Wrap(err, "cannot store vault")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ActivateWithSelfCustody pulls the payment from the owner, who must own the
// avatar directly. Being approved for the avatar is not enough. When
// moveAsset is set the avatar is moved into the vault as well.
func (c *Controller) ActivateWithSelfCustody(db custody.KVStore, caller, vault, registry custody.Address, id uint64, payment uint64, moveAsset bool) (*Vault, error) {
	if payment == 0 {
		return nil, errors.Wrap(errors.ErrAmount, "payment must be positive")
	}
	v, err := c.activatable(db, caller, vault, registry)
	if err != nil {
		return nil, err
	}
	owner, err := c.assets.OwnerOf(db, registry, id)
	if err != nil {
		return nil, errors.Wrap(err, "self custody asset")
	}
	if !owner.Equals(v.Owner) {
		return nil, errors.Wrapf(ErrNotOwner, "avatar %d", id)
	}
	if err := c.payable(db, v, payment); err != nil {
		return nil, errors.Wrap(err, "self custody payment")
	}

	err = stage(db, func(db custody.KVStore) error {
		if err := c.ledger.TransferFrom(db, v.Ledger, v.Address, v.Owner, v.Address, payment); err != nil {
			return errors.Wrap(err, "self custody payment")
		}
		if moveAsset {
			if err := c.assets.TransferFrom(db, registry, v.Address, v.Owner, v.Address, id); err != nil {
				return errors.Wrap(err, "self custody asset")
			}
		}
		v.AssetRegistry = registry
		v.AssetID = id
		v.Deposited = payment
		v.Active = true
		v.Mode = SelfCustody
		v.AssetHeld = moveAsset
		if _, err := c.bucket.Put(db, v.Address, v); err != nil {
			return errors.Wrap(err, "cannot store vault")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// activatable loads the vault and ensures the caller is allowed to activate
// it.
func (c *Controller) activatable(db custody.ReadOnlyKVStore, caller, vault, registry custody.Address) (*Vault, error) {
	if err := registry.Validate(); err != nil {
		return nil, errors.Wrap(err, "asset registry")
	}
	v, err := c.Vault(db, vault)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(v.Owner) {
		return nil, errors.Wrapf(ErrNotVaultOwner, "vault %s", vault)
	}
	if v.Active {
		return nil, errors.Wrapf(ErrAlreadyActive, "vault %s is in %s mode", vault, v.Mode)
	}
	return v, nil
}

// payable ensures the owner allowed the vault to pull amount and holds
// enough funds to pay it.
func (c *Controller) payable(db custody.ReadOnlyKVStore, v *Vault, amount uint64) error {
	allowed, err := c.ledger.Allowance(db, v.Ledger, v.Owner, v.Address)
	if err != nil {
		return errors.Wrap(err, "allowance")
	}
	if allowed < amount {
		return errors.Wrapf(ErrInsufficientAllowance, "allowance %d, requested %d", allowed, amount)
	}
	balance, err := c.ledger.BalanceOf(db, v.Ledger, v.Owner)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	if balance < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, requested %d", balance, amount)
	}
	return nil
}

// stage runs fn on a cache layer of db. Changes are written only if fn
// succeeds.
func stage(db custody.KVStore, fn func(custody.KVStore) error) error {
	cdb, ok := db.(custody.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "store %T cannot be cache wrapped", db)
	}
	cache := cdb.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
