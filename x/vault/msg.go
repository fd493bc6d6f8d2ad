package vault

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x"
)

var _ custody.Msg = (*ActivateEscrowMsg)(nil)

func (ActivateEscrowMsg) Path() string {
	return "vault/activate_escrow"
}

// ActivateEscrowMsg activates the vault by escrowing an avatar together
// with the vault escrow cost.
type ActivateEscrowMsg struct {
	Metadata      *custody.Metadata `json:"metadata"`
	Vault         custody.Address   `json:"vault"`
	AssetRegistry custody.Address   `json:"asset_registry"`
	AssetID       uint64            `json:"asset_id"`
}

func (m *ActivateEscrowMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Vault", m.Vault))
	errs = errors.Append(errs, x.ValidateAddress("AssetRegistry", m.AssetRegistry))
	return errs
}

func (m *ActivateEscrowMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *ActivateEscrowMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}

var _ custody.Msg = (*ActivateSelfCustodyMsg)(nil)

func (ActivateSelfCustodyMsg) Path() string {
	return "vault/activate_self_custody"
}

// ActivateSelfCustodyMsg activates the vault for an avatar directly owned
// by the vault owner, paying the given amount.
type ActivateSelfCustodyMsg struct {
	Metadata      *custody.Metadata `json:"metadata"`
	Vault         custody.Address   `json:"vault"`
	AssetRegistry custody.Address   `json:"asset_registry"`
	AssetID       uint64            `json:"asset_id"`
	Payment       uint64            `json:"payment"`
}

func (m *ActivateSelfCustodyMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Vault", m.Vault))
	errs = errors.Append(errs, x.ValidateAddress("AssetRegistry", m.AssetRegistry))
	if m.Payment == 0 {
		errs = errors.Append(errs, errors.Field("Payment", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *ActivateSelfCustodyMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *ActivateSelfCustodyMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}
