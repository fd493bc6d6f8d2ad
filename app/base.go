package app

import (
	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp routes CheckTx and DeliverTx through the decorated handler, on
// top of the state and queries kept by StoreApp.
type BaseApp struct {
	*StoreApp
	decoder custody.TxDecoder
	handler custody.Handler
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder custody.TxDecoder, handler custody.Handler) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler}
}

// DeliverTx runs tx against the deliver cache of the current block.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return deliverResponse(nil, err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return deliverResponse(res, err, b.debug)
}

// CheckTx runs tx against the check cache, which is dropped on commit.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return checkResponse(nil, err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return checkResponse(res, err, b.debug)
}

// txContext tags the block context with the ABCI call and the message
// path, for example "vault/activate_escrow".
func (b BaseApp) txContext(call string, tx custody.Tx) custody.Context {
	return custody.WithLogInfo(b.BlockContext(), "call", call, "path", custody.GetPath(tx))
}

// decode reports a panicking decoder as ErrPanic.
func (b BaseApp) decode(txBytes []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
