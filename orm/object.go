package orm

import (
	"reflect"

	"github.com/easlabs/custody/errors"
)

// Record binds a model to the key it is stored under. Buckets keep one
// empty Record as a prototype and clone it for every load.
type Record struct {
	key   []byte
	value Model
}

var _ Object = (*Record)(nil)

func NewRecord(key []byte, value Model) *Record {
	return &Record{key: key, value: value}
}

func (r Record) Key() []byte {
	return r.key
}

func (r *Record) SetKey(key []byte) {
	r.key = key
}

func (r Record) Value() Model {
	return r.value
}

// Validate requires a key and a value and runs the model's own checks.
func (r Record) Validate() error {
	switch {
	case len(r.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case r.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", r.value.Validate(), "invalid value")
}

// Clone returns a record holding a zero value of the same model type. The
// key is copied when set.
func (r *Record) Clone() Object {
	zero := reflect.New(reflect.TypeOf(r.value).Elem()).Interface().(Model)
	res := &Record{value: zero}
	if len(r.key) > 0 {
		res.key = append([]byte(nil), r.key...)
	}
	return res
}
