package gconf

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// ReadStore is the read half of custody.ReadOnlyKVStore used by Load.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of custody.KVStore used by Save.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration that can check and serialize itself.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is implemented by every configuration object.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// confKey places configurations under "_c:", apart from extension buckets.
func confKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and stores it as the configuration of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := confKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration of pkg into dst. It returns ErrNotFound
// until a configuration is saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := confKey(pkg)
	raw, err := db.Get(key)
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal: key %q", key)
}

// InitConfig saves the genesis document found at app_state.conf[pkg]. A
// genesis without one is reported as ErrNotFound.
func InitConfig(db Store, opts custody.Options, pkg string, conf Configuration) error {
	var all custody.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "read configuration for %s: %s", pkg, err)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save configuration for %s", pkg)
}
