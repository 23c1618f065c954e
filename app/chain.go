package app

import (
	"reflect"

	"github.com/iov-one/barter"
)

// Decorators is an ordered list of decorators waiting for the handler they
// will wrap. The first decorator is the outermost one.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	chain []barter.Decorator
}

// ChainDecorators creates a list from the given decorators. Nil values are
// skipped, so optional decorators can be passed unconditionally.
func ChainDecorators(chain ...barter.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new list with the given decorators appended.
func (d Decorators) Chain(chain ...barter.Decorator) Decorators {
	all := make([]barter.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(all, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			all = append(all, dec)
		}
	}
	return Decorators{chain: all}
}

func isNilDecorator(d barter.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler wraps h in all decorators of the list.
func (d Decorators) WithHandler(h barter.Handler) barter.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = wrapped{decorator: d.chain[i], next: h}
	}
	return h
}

// wrapped is a handler that calls a decorator with the next handler.
type wrapped struct {
	decorator barter.Decorator
	next      barter.Handler
}

var _ barter.Handler = wrapped{}

func (w wrapped) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	return w.decorator.Check(ctx, store, tx, w.next)
}

func (w wrapped) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	return w.decorator.Deliver(ctx, store, tx, w.next)
}
