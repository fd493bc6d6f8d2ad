package custody

import (
	"reflect"

	amino "github.com/tendermint/go-amino"

	"github.com/easlabs/custody/errors"
)

// cdc serializes all models and messages. Only concrete structures are
// encoded so no type registration is necessary.
var cdc = amino.NewCodec()

// Encode returns the binary representation of given structure.
func Encode(obj interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(obj)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "cannot marshal %T: %s", obj, err)
	}
	return raw, nil
}

// Decode loads given binary representation into a structure pointed by dest.
// Any previous content of dest is discarded.
func Decode(raw []byte, dest interface{}) error {
	if v := reflect.ValueOf(dest); v.Kind() == reflect.Ptr && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
	if err := cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrType, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// MustEncode is Encode that panics on failure. Use it only with data that
// is known to be serializable, for example in tests.
func MustEncode(obj interface{}) []byte {
	raw, err := Encode(obj)
	if err != nil {
		panic(err)
	}
	return raw
}
