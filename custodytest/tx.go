package custodytest

import "github.com/easlabs/custody"

// Tx is a transaction holding one message. It cannot be serialized.
type Tx struct {
	Msg custody.Msg
	// Err fails GetMsg when set.
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("custodytest.Tx cannot be decoded")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("custodytest.Tx cannot be encoded")
}

// Msg is routed by RoutePath and encodes to the Serialized bytes as is.
// When Err is set every method except Path returns it.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ custody.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
