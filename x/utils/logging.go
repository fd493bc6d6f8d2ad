package utils

import (
	"time"

	"github.com/easlabs/custody"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging reports every transaction with its duration in microseconds.
// Failures are logged as errors. Successful checks log at debug level and
// successful deliveries at info level, as only the latter change state.
type Logging struct{}

var _ custody.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logger := txLogger(ctx, start)
	switch {
	case err != nil:
		logger.Error("check failed", "err", err)
	default:
		logger.Debug(res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logger := txLogger(ctx, start)
	switch {
	case err != nil:
		logger.Error("deliver failed", "err", err)
	default:
		logger.Info(res.Log)
	}
	return res, err
}

func txLogger(ctx custody.Context, start time.Time) log.Logger {
	return custody.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
}
