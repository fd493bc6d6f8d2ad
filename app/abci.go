package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/easlabs/custody"
	"github.com/easlabs/custody/errors"
)

// Registered errors keep their code in the ABCI responses. Any other
// error is reported as internal unless debug is on.

func deliverResponse(res *custody.DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}
	return abci.ResponseDeliverTx{Data: res.Data, Log: res.Log, GasUsed: res.GasUsed}
}

func checkResponse(res *custody.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}
	return abci.ResponseCheckTx{Data: res.Data, Log: res.Log, GasWanted: res.GasAllocated}
}

func queryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
