package orm

import (
	"github.com/easlabs/custody"
)

// Object binds a Model to the key it is stored under, relative to the
// bucket prefix.
type Object interface {
	Keyed
	Cloneable
	// Validate must pass before the object is written.
	Validate() error
	Value() Model
}

// Keyed objects carry their own key.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty object of the same kind that a stored value
// can be loaded into. Buckets keep one as a prototype.
type Cloneable interface {
	Clone() Object
}

// Model is the protobuf state entity held by an Object, such as a vault
// or a registry reference.
type Model interface {
	custody.Persistent
	Validate() error
	Copy() Model
}
