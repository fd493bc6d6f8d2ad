package registry

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/gconf"
)

// Initializer loads the registry configuration from the genesis "conf"
// section.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confPkg, &conf)
}
