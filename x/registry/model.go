package registry

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/orm"
)

// VaultRef points from an owner to the vault provisioned for it.
type VaultRef struct {
	Metadata *custody.Metadata `json:"metadata"`
	Vault    custody.Address   `json:"vault"`
}

var _ orm.Model = (*VaultRef)(nil)

func (r *VaultRef) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", r.Metadata.Validate())
	errs = errors.AppendField(errs, "Vault", r.Vault.Validate())
	return errs
}

func (r *VaultRef) Copy() orm.Model {
	return &VaultRef{
		Metadata: r.Metadata.Copy(),
		Vault:    r.Vault.Clone(),
	}
}

func (r *VaultRef) Marshal() ([]byte, error) {
	return custody.Encode(r)
}

func (r *VaultRef) Unmarshal(raw []byte) error {
	return custody.Decode(raw, r)
}

// NewBucket returns a bucket mapping an owner address to its vault.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("registry", &VaultRef{})
}
