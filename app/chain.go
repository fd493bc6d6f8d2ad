package app

import (
	"reflect"

	"github.com/easlabs/custody"
)

// Decorators is an ordered stack of decorators waiting for the handler
// they wrap. The custody daemon builds its stack as
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		utils.NewSavepoint().OnCheck(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
//
// so that signatures are verified before any vault message is routed.
type Decorators struct {
	chain []custody.Decorator
}

// ChainDecorators starts a stack. Nil decorators are dropped, which lets
// callers pass optional decorators without branching.
func ChainDecorators(chain ...custody.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with the given decorators appended. The
// receiver is not modified.
func (d Decorators) Chain(chain ...custody.Decorator) Decorators {
	res := make([]custody.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(res, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			res = append(res, dec)
		}
	}
	return Decorators{chain: res}
}

func isNilDecorator(d custody.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack around h. The first decorator of the
// stack runs first.
func (d Decorators) WithHandler(h custody.Handler) custody.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step is one decorator bound to the rest of the stack.
type step struct {
	d    custody.Decorator
	next custody.Handler
}

var _ custody.Handler = step{}

func (s step) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
