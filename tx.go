package custody

import (
	"reflect"

	"github.com/easlabs/custody/errors"
)

// Msg is a request for one state transition, such as provisioning a
// vault. It carries no authentication; signatures live on the Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example
	// "registry/provision". It must match [0-9A-Za-z_\-/]+.
	Path() string

	// Validate checks the message on its own, without reading state.
	Validate() error
}

// Marshaller encodes to bytes. Encoding may fail on invalid data.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent round trips through bytes. Unmarshal usually needs a pointer
// receiver, which is why Marshaller stands alone.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is what a user submits: one Msg plus whatever the decorators need
// to authenticate and meter it. The application defines the concrete type.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// GetPath is the route of the message in tx, or "(missing)" when tx holds
// none.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg copies the message of tx into destination, which must point to
// the concrete message type, and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "empty transaction message")
	}

	res := reflect.ValueOf(msg)
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrHuman, "destination must be a pointer")
	}
	if res.Kind() == reflect.Ptr {
		res = res.Elem()
	}
	if !res.Type().AssignableTo(dest.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dest.Elem().Set(res)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
