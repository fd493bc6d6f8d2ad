package avatar

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

const optKey = "avatar"

// GenesisCollection is a collection created at genesis. Avatars listed in
// Owners are minted in order, so the first one gets id zero.
type GenesisCollection struct {
	Name   string            `json:"name"`
	Symbol string            `json:"symbol"`
	Owners []custody.Address `json:"owners"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial collections from genesis
// and save them to the database
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var collections []GenesisCollection
	if err := opts.ReadOptions(optKey, &collections); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ctrl := NewController()
	for i, c := range collections {
		addr, err := ctrl.CreateCollection(db, &Collection{
			Metadata: &custody.Metadata{Schema: 1},
			Name:     c.Name,
			Symbol:   c.Symbol,
		})
		if err != nil {
			return errors.Wrapf(err, "collection #%d", i)
		}
		for _, owner := range c.Owners {
			if err := owner.Validate(); err != nil {
				return errors.Wrapf(err, "collection #%d owner", i)
			}
			if _, err := ctrl.Mint(db, addr, owner); err != nil {
				return errors.Wrapf(err, "collection #%d", i)
			}
		}
	}
	return nil
}
