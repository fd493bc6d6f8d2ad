package registry

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	"github.com/easlabs/custody/gconf"
)

const confPkg = "registry"

// Configuration is the registry configuration stored with gconf.
type Configuration struct {
	Metadata *custody.Metadata `json:"metadata"`
	// Owner may update the configuration.
	Owner custody.Address `json:"owner"`
	// Ledger and EscrowCost are shared by every vault of the registry and
	// cannot change once the registry exists.
	Ledger     custody.Address `json:"ledger" gconf:"immutable"`
	EscrowCost uint64          `json:"escrow_cost" gconf:"immutable"`
	// SelfCustodyMovesAsset decides if avatars activated under self custody
	// are moved into the vault.
	SelfCustodyMovesAsset bool `json:"self_custody_moves_asset"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() custody.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "Ledger", c.Ledger.Validate())
	if c.EscrowCost == 0 {
		errs = errors.Append(errs, errors.Field("EscrowCost", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return custody.Encode(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return custody.Decode(raw, c)
}

// loadConf returns the current configuration.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
