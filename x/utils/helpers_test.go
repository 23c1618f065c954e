package utils

import (
	"github.com/iov-one/barter"
)

// writeHandler writes the key, value pair and returns the error (may be nil)
func writeHandler(key, value []byte, err error) barter.Handler {
	return writer{key: key, value: value, err: err}
}

// writeDecorator writes the key, value pair.
// Either before or after calling the handlers
func writeDecorator(key, value []byte, after bool) barter.Decorator {
	return writeDeco{key: key, value: value, after: after}
}

type writer struct {
	key   []byte
	value []byte
	err   error
}

var _ barter.Handler = writer{}

func (h writer) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &barter.CheckResult{}, h.err
}

func (h writer) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &barter.DeliverResult{}, h.err
}

type writeDeco struct {
	key   []byte
	value []byte
	after bool
}

var _ barter.Decorator = writeDeco{}

func (d writeDeco) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	if !d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	res, err := next.Check(ctx, store, tx)
	if d.after && err == nil {
		err = store.Set(d.key, d.value)
	}
	return res, err
}

func (d writeDeco) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	if !d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	res, err := next.Deliver(ctx, store, tx)
	if d.after && err == nil {
		err = store.Set(d.key, d.value)
	}
	return res, err
}
