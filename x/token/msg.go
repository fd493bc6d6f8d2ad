package token

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x"
)

var _ custody.Msg = (*CreateTokenMsg)(nil)

func (CreateTokenMsg) Path() string {
	return "token/create"
}

// CreateTokenMsg creates a new ledger.
type CreateTokenMsg struct {
	Metadata     *custody.Metadata `json:"metadata"`
	Name         string            `json:"name"`
	Symbol       string            `json:"symbol"`
	Decimals     uint32            `json:"decimals"`
	FaucetAmount uint64            `json:"faucet_amount"`
}

func (m *CreateTokenMsg) Validate() error {
	info := TokenInfo{
		Metadata:     m.Metadata,
		Name:         m.Name,
		Symbol:       m.Symbol,
		Decimals:     m.Decimals,
		FaucetAmount: m.FaucetAmount,
	}
	return info.Validate()
}

func (m *CreateTokenMsg) Marshal() ([]byte, error)   { return custody.Encode(m) }
func (m *CreateTokenMsg) Unmarshal(raw []byte) error { return custody.Decode(raw, m) }

var _ custody.Msg = (*FaucetMsg)(nil)

func (FaucetMsg) Path() string {
	return "token/faucet"
}

// FaucetMsg mints the faucet amount of the ledger to the signer.
type FaucetMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
	Ledger   custody.Address   `json:"ledger"`
}

func (m *FaucetMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Ledger", m.Ledger))
	return errs
}

func (m *FaucetMsg) Marshal() ([]byte, error)   { return custody.Encode(m) }
func (m *FaucetMsg) Unmarshal(raw []byte) error { return custody.Decode(raw, m) }

var _ custody.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return "token/approve"
}

// ApproveMsg sets the allowance of the spender over the signer's balance.
// A zero amount revokes the allowance.
type ApproveMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
	Ledger   custody.Address   `json:"ledger"`
	Spender  custody.Address   `json:"spender"`
	Amount   uint64            `json:"amount"`
}

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Ledger", m.Ledger))
	errs = errors.Append(errs, x.ValidateAddress("Spender", m.Spender))
	return errs
}

func (m *ApproveMsg) Marshal() ([]byte, error)   { return custody.Encode(m) }
func (m *ApproveMsg) Unmarshal(raw []byte) error { return custody.Decode(raw, m) }

var _ custody.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return "token/transfer"
}

// TransferMsg moves tokens from the signer to the recipient.
type TransferMsg struct {
	Metadata  *custody.Metadata `json:"metadata"`
	Ledger    custody.Address   `json:"ledger"`
	Recipient custody.Address   `json:"recipient"`
	Amount    uint64            `json:"amount"`
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Ledger", m.Ledger))
	errs = errors.Append(errs, x.ValidateAddress("Recipient", m.Recipient))
	errs = errors.Append(errs, x.ValidateAmount("Amount", m.Amount))
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error)   { return custody.Encode(m) }
func (m *TransferMsg) Unmarshal(raw []byte) error { return custody.Decode(raw, m) }
