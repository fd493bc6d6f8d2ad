package registry

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

var _ custody.Msg = (*ProvisionVaultMsg)(nil)

func (ProvisionVaultMsg) Path() string {
	return "registry/provision_vault"
}

// ProvisionVaultMsg creates the vault of the signer.
type ProvisionVaultMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
}

func (m *ProvisionVaultMsg) Validate() error {
	return errors.Field("Metadata", m.Metadata.Validate(), "invalid metadata")
}

func (m *ProvisionVaultMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *ProvisionVaultMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}

var _ custody.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "registry/update_configuration"
}

// UpdateConfigurationMsg patches the registry configuration. Zero value
// fields of the patch are ignored.
type UpdateConfigurationMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
	Patch    *Configuration    `json:"patch"`
}

func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		errs = errors.Append(errs, errors.Field("Patch", errors.ErrEmpty, "required"))
	}
	return errs
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return custody.Encode(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return custody.Decode(raw, m)
}
