package custody

import (
	"github.com/easlabs/custody/errors"
)

// Metadata is embedded in every model and message. It carries the schema
// version of the serialized structure so that it can be migrated.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrSchema, "missing metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrSchema, "schema version is required")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
