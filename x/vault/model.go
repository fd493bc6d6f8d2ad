package vault

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
)

// Mode describes how the vault holds its avatar.
type Mode int32

const (
	Inactive    Mode = 0
	Escrow      Mode = 1
	SelfCustody Mode = 2
)

func (m Mode) String() string {
	switch m {
	case Inactive:
		return "inactive"
	case Escrow:
		return "escrow"
	case SelfCustody:
		return "self_custody"
	}
	return "unknown"
}

// Validate returns an error if the mode is not one of the known values.
func (m Mode) Validate() error {
	switch m {
	case Inactive, Escrow, SelfCustody:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown mode %d", m)
}

// Vault holds a single avatar on behalf of its owner.
type Vault struct {
	Metadata *custody.Metadata `json:"metadata"`
	// Address is the account of the vault on both ledgers.
	Address custody.Address `json:"address"`
	Owner   custody.Address `json:"owner"`
	// Ledger is the fungible ledger all payments are pulled from.
	Ledger     custody.Address `json:"ledger"`
	EscrowCost uint64          `json:"escrow_cost"`
	// AssetRegistry and AssetID are set on activation.
	AssetRegistry custody.Address `json:"asset_registry,omitempty"`
	AssetID       uint64          `json:"asset_id"`
	Deposited     uint64          `json:"deposited"`
	Active        bool            `json:"active"`
	Mode          Mode            `json:"mode"`
	// AssetHeld is true when the avatar was moved into the vault account.
	AssetHeld bool `json:"asset_held"`
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", v.Metadata.Validate())
	errs = errors.AppendField(errs, "Address", v.Address.Validate())
	errs = errors.AppendField(errs, "Owner", v.Owner.Validate())
	errs = errors.AppendField(errs, "Ledger", v.Ledger.Validate())
	errs = errors.AppendField(errs, "Mode", v.Mode.Validate())
	if v.EscrowCost == 0 {
		errs = errors.Append(errs, errors.Field("EscrowCost", errors.ErrAmount, "escrow cost must be positive"))
	}

	if v.Active != (v.Mode != Inactive) {
		errs = errors.Append(errs, errors.Field("Active", errors.ErrState, "active flag does not match mode %s", v.Mode))
	}
	if v.Active {
		errs = errors.AppendField(errs, "AssetRegistry", v.AssetRegistry.Validate())
		if v.Deposited == 0 {
			errs = errors.Append(errs, errors.Field("Deposited", errors.ErrState, "active vault must hold a deposit"))
		}
		if v.Mode == Escrow && !v.AssetHeld {
			errs = errors.Append(errs, errors.Field("AssetHeld", errors.ErrState, "escrow vault must hold the asset"))
		}
	} else {
		if len(v.AssetRegistry) != 0 || v.AssetID != 0 {
			errs = errors.Append(errs, errors.Field("AssetRegistry", errors.ErrState, "inactive vault cannot reference an asset"))
		}
		if v.Deposited != 0 {
			errs = errors.Append(errs, errors.Field("Deposited", errors.ErrState, "inactive vault cannot have a deposit"))
		}
		if v.AssetHeld {
			errs = errors.Append(errs, errors.Field("AssetHeld", errors.ErrState, "inactive vault cannot hold an asset"))
		}
	}
	return errs
}

func (v *Vault) Copy() orm.Model {
	return &Vault{
		Metadata:      v.Metadata.Copy(),
		Address:       v.Address.Clone(),
		Owner:         v.Owner.Clone(),
		Ledger:        v.Ledger.Clone(),
		EscrowCost:    v.EscrowCost,
		AssetRegistry: v.AssetRegistry.Clone(),
		AssetID:       v.AssetID,
		Deposited:     v.Deposited,
		Active:        v.Active,
		Mode:          v.Mode,
		AssetHeld:     v.AssetHeld,
	}
}

func (v *Vault) Marshal() ([]byte, error) {
	return custody.Encode(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return custody.Decode(raw, v)
}

// Condition returns the condition of a vault created with given sequence
// value.
func Condition(key []byte) custody.Condition {
	return custody.NewCondition("vault", "seq", key)
}

var vaultSeq = orm.NewSequence("vault", "id")

// NewBucket returns a bucket holding vaults keyed by their address. Vaults
// are indexed by owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("vault", &Vault{},
		orm.WithIndex("owner", vaultOwner, false),
	)
}

func vaultOwner(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	v, ok := obj.Value().(*Vault)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of Vault, got %T", obj.Value())
	}
	return v.Owner, nil
}
