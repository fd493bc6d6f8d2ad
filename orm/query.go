package orm

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// RegisterQuery will register a root query (literal keys)
// under "/" for the given query router
func RegisterQuery(qr custody.QueryRouter) {
	qr.Register("/", rawQuery{})
}

// rawQuery exposes the merkle store keys directly.
type rawQuery struct{}

func (rawQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil || value == nil {
			return nil, err
		}
		return []custody.Model{custody.Pair(data, value)}, nil
	case custody.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %q", mod)
	}
}
