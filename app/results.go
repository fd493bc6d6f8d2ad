package app

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// ResultSet is one half of a query response: either all keys or all values
// of the matching models, in the same order.
type ResultSet struct {
	Results [][]byte `json:"results"`
}

func (r *ResultSet) Marshal() ([]byte, error) {
	return custody.Encode(r)
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	return custody.Decode(raw, r)
}

// SplitResults separates models into a key and a value ResultSet.
func SplitResults(models []custody.Model) (keys, values *ResultSet) {
	keys = &ResultSet{Results: make([][]byte, len(models))}
	values = &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		keys.Results[i] = m.Key
		values.Results[i] = m.Value
	}
	return keys, values
}

// JoinResults pairs up a query response split by SplitResults.
func JoinResults(keys, values *ResultSet) ([]custody.Model, error) {
	if nk, nv := len(keys.Results), len(values.Results); nk != nv {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d keys, %d values", nk, nv)
	}
	models := make([]custody.Model, len(keys.Results))
	for i, key := range keys.Results {
		models[i] = custody.Pair(key, values.Results[i])
	}
	return models, nil
}
