package bartertest

import "github.com/iov-one/barter"

// counter tracks how many times a mock was run in each mode.
type counter struct {
	checks   int
	delivers int
}

func (c *counter) CheckCallCount() int   { return c.checks }
func (c *counter) DeliverCallCount() int { return c.delivers }
func (c *counter) CallCount() int        { return c.checks + c.delivers }

// Handler is a barter.Handler returning canned results. A set CheckErr or
// DeliverErr replaces the result. Every call is counted, failed ones
// included.
type Handler struct {
	counter

	CheckResult   barter.CheckResult
	CheckErr      error
	DeliverResult barter.DeliverResult
	DeliverErr    error
}

var _ barter.Handler = (*Handler)(nil)

func (h *Handler) Check(barter.Context, barter.KVStore, barter.Tx) (*barter.CheckResult, error) {
	h.checks++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(barter.Context, barter.KVStore, barter.Tx) (*barter.DeliverResult, error) {
	h.delivers++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// Decorator is a barter.Decorator calling the next handler unless
// CheckErr or DeliverErr is set. Every call is counted.
type Decorator struct {
	counter

	CheckErr   error
	DeliverErr error
}

var _ barter.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return &barter.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return &barter.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns h with d in front of it.
func Decorate(h barter.Handler, d barter.Decorator) barter.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   barter.Handler
	decorator barter.Decorator
}

func (d decorated) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
