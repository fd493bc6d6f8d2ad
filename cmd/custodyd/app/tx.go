package app

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x/avatar"
	"github.com/easlabs/custody/x/registry"
	"github.com/easlabs/custody/x/sigs"
	"github.com/easlabs/custody/x/token"
	"github.com/easlabs/custody/x/vault"
)

// Tx carries exactly one message together with the signatures
// authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`

	BumpSequenceMsg         *sigs.BumpSequenceMsg            `json:"bump_sequence,omitempty"`
	CreateTokenMsg          *token.CreateTokenMsg            `json:"create_token,omitempty"`
	FaucetMsg               *token.FaucetMsg                 `json:"faucet,omitempty"`
	ApproveTokenMsg         *token.ApproveMsg                `json:"approve_token,omitempty"`
	TransferTokenMsg        *token.TransferMsg               `json:"transfer_token,omitempty"`
	CreateCollectionMsg     *avatar.CreateCollectionMsg      `json:"create_collection,omitempty"`
	MintAvatarMsg           *avatar.MintMsg                  `json:"mint_avatar,omitempty"`
	ApproveAvatarMsg        *avatar.ApproveMsg               `json:"approve_avatar,omitempty"`
	TransferAvatarMsg       *avatar.TransferMsg              `json:"transfer_avatar,omitempty"`
	ProvisionVaultMsg       *registry.ProvisionVaultMsg      `json:"provision_vault,omitempty"`
	UpdateRegistryConfigMsg *registry.UpdateConfigurationMsg `json:"update_registry_config,omitempty"`
	ActivateEscrowMsg       *vault.ActivateEscrowMsg         `json:"activate_escrow,omitempty"`
	ActivateSelfCustodyMsg  *vault.ActivateSelfCustodyMsg    `json:"activate_self_custody,omitempty"`
}

var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the only message set on the transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	msgs := tx.slots()
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrState, "transaction has no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "transaction has %d messages", len(msgs))
	}
}

// SetMsg puts the message into the matching slot. All other slots are
// cleared.
func (tx *Tx) SetMsg(msg custody.Msg) error {
	*tx = Tx{Signatures: tx.Signatures}

	switch m := msg.(type) {
	case *sigs.BumpSequenceMsg:
		tx.BumpSequenceMsg = m
	case *token.CreateTokenMsg:
		tx.CreateTokenMsg = m
	case *token.FaucetMsg:
		tx.FaucetMsg = m
	case *token.ApproveMsg:
		tx.ApproveTokenMsg = m
	case *token.TransferMsg:
		tx.TransferTokenMsg = m
	case *avatar.CreateCollectionMsg:
		tx.CreateCollectionMsg = m
	case *avatar.MintMsg:
		tx.MintAvatarMsg = m
	case *avatar.ApproveMsg:
		tx.ApproveAvatarMsg = m
	case *avatar.TransferMsg:
		tx.TransferAvatarMsg = m
	case *registry.ProvisionVaultMsg:
		tx.ProvisionVaultMsg = m
	case *registry.UpdateConfigurationMsg:
		tx.UpdateRegistryConfigMsg = m
	case *vault.ActivateEscrowMsg:
		tx.ActivateEscrowMsg = m
	case *vault.ActivateSelfCustodyMsg:
		tx.ActivateSelfCustodyMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// slots returns all messages that are set. A nil pointer would be stored
// in the interface as a typed nil, so each field is checked on its own.
func (tx *Tx) slots() []custody.Msg {
	var out []custody.Msg
	add := func(isNil bool, m custody.Msg) {
		if !isNil {
			out = append(out, m)
		}
	}
	add(tx.BumpSequenceMsg == nil, tx.BumpSequenceMsg)
	add(tx.CreateTokenMsg == nil, tx.CreateTokenMsg)
	add(tx.FaucetMsg == nil, tx.FaucetMsg)
	add(tx.ApproveTokenMsg == nil, tx.ApproveTokenMsg)
	add(tx.TransferTokenMsg == nil, tx.TransferTokenMsg)
	add(tx.CreateCollectionMsg == nil, tx.CreateCollectionMsg)
	add(tx.MintAvatarMsg == nil, tx.MintAvatarMsg)
	add(tx.ApproveAvatarMsg == nil, tx.ApproveAvatarMsg)
	add(tx.TransferAvatarMsg == nil, tx.TransferAvatarMsg)
	add(tx.ProvisionVaultMsg == nil, tx.ProvisionVaultMsg)
	add(tx.UpdateRegistryConfigMsg == nil, tx.UpdateRegistryConfigMsg)
	add(tx.ActivateEscrowMsg == nil, tx.ActivateEscrowMsg)
	add(tx.ActivateSelfCustodyMsg == nil, tx.ActivateSelfCustodyMsg)
	return out
}

// GetSignBytes returns the bytes to sign. Signatures are left out, so the
// sign bytes only come from the message itself.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	signatures := tx.Signatures
	tx.Signatures = nil
	bz, err := tx.Marshal()
	tx.Signatures = signatures
	return bz, err
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

func (tx *Tx) Marshal() ([]byte, error) {
	return custody.Encode(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return custody.Decode(raw, tx)
}
