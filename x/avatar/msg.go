package avatar

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/x"
)

var _ custody.Msg = (*CreateCollectionMsg)(nil)

func (CreateCollectionMsg) Path() string {
	return "avatar/create_collection"
}

// CreateCollectionMsg creates a new avatar collection.
type CreateCollectionMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
	Name     string            `json:"name"`
	Symbol   string            `json:"symbol"`
}

func (m *CreateCollectionMsg) Validate() error {
	c := Collection{Metadata: m.Metadata, Name: m.Name, Symbol: m.Symbol}
	return c.Validate()
}

func (m *CreateCollectionMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *CreateCollectionMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}

var _ custody.Msg = (*MintMsg)(nil)

func (MintMsg) Path() string {
	return "avatar/mint"
}

// MintMsg mints the next avatar of the collection to the signer.
type MintMsg struct {
	Metadata   *custody.Metadata `json:"metadata"`
	Collection custody.Address   `json:"collection"`
}

func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Collection", m.Collection))
	return errs
}

func (m *MintMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *MintMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}

var _ custody.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string {
	return "avatar/approve"
}

// ApproveMsg allows the spender to transfer an avatar owned by the signer.
type ApproveMsg struct {
	Metadata   *custody.Metadata `json:"metadata"`
	Collection custody.Address   `json:"collection"`
	ID         uint64            `json:"id"`
	Spender    custody.Address   `json:"spender"`
}

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Collection", m.Collection))
	errs = errors.Append(errs, x.ValidateAddress("Spender", m.Spender))
	return errs
}

func (m *ApproveMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}

var _ custody.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return "avatar/transfer"
}

// TransferMsg moves an avatar to the recipient. The signer must own the
// avatar or be approved for it. From defaults to the signer.
type TransferMsg struct {
	Metadata   *custody.Metadata `json:"metadata"`
	Collection custody.Address   `json:"collection"`
	ID         uint64            `json:"id"`
	From       custody.Address   `json:"from,omitempty"`
	Recipient  custody.Address   `json:"recipient"`
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, x.ValidateAddress("Collection", m.Collection))
	errs = errors.Append(errs, x.ValidateAddress("Recipient", m.Recipient))
	if len(m.From) != 0 {
		errs = errors.AppendField(errs, "From", m.From.Validate())
	}
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}
