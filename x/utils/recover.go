package utils

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Recovery turns a panic in any handler below it into an ErrPanic error,
// so that a single broken transaction cannot stop the node.
type Recovery struct{}

var _ barter.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Checker) (_ *barter.CheckResult, err error) {
	defer recoverInto(ctx, &err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Deliverer) (_ *barter.DeliverResult, err error) {
	defer recoverInto(ctx, &err)
	return next.Deliver(ctx, store, tx)
}

func recoverInto(ctx barter.Context, err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(errors.ErrPanic, "%v", r)
		barter.GetLogger(ctx).Error("handler panic", "panic", r)
	}
}
