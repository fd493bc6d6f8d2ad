package custodytest

import "github.com/easlabs/custody"

// Decorator counts its calls and passes them to the next handler, unless
// CheckErr or DeliverErr is set, in which case that error is returned
// without calling next.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	calls int
}

var _ custody.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	d.calls++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	d.calls++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CallCount is the number of Check and Deliver calls together.
func (d *Decorator) CallCount() int {
	return d.calls
}

// Decorate wraps h so that every call goes through d first.
func Decorate(h custody.Handler, d custody.Decorator) custody.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next custody.Handler
	dec  custody.Decorator
}

func (d decorated) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
