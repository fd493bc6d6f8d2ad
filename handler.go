package custody

import (
	"encoding/json"
)

// Handler processes one kind of message, such as activating a vault or
// minting an avatar. Check validates without side effects that matter,
// Deliver applies the change.
type Handler interface {
	Checker
	Deliverer
}

// Checker and Deliverer are the two halves of a Handler, split so a
// Decorator receives only the half it is wrapping.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around every Handler, for concerns shared by all
// messages such as signature checks or savepoints. It calls next to
// continue down the stack.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message types to their handlers.
type Registry interface {
	Handle(Msg, Handler)
}

// Options is the app_state of the genesis file, one raw JSON document per
// extension key.
type Options map[string]json.RawMessage

// ReadOptions decodes the document stored under key into obj. A missing
// key leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads an extension's state from the genesis file.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// CheckResult is returned by a successful Check. Failures are reported as
// errors only.
type CheckResult struct {
	// Data is machine readable, like the address of a provisioned vault.
	Data []byte
	Log  string
	// GasAllocated is the most work the transaction may perform.
	GasAllocated int64
	// GasPayment is the fee covered by the transaction.
	GasPayment int64
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	Data    []byte
	Log     string
	GasUsed int64
}
