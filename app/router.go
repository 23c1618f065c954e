package app

import (
	"fmt"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Router dispatches a transaction to the handler registered for the path
// of its message. Each path can have only one handler.
type Router struct {
	routes map[string]barter.Handler
}

var (
	_ barter.Registry = (*Router)(nil)
	_ barter.Handler  = (*Router)(nil)
)

func NewRouter() *Router {
	return &Router{routes: make(map[string]barter.Handler)}
}

// Handle registers h for the path of m. It panics if the path is not valid
// or already taken, both are programming errors found on startup.
func (r *Router) Handle(m barter.Msg, h barter.Handler) {
	path := m.Path()
	if err := barter.ValidatePath(path); err != nil {
		panic(err)
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("message path %q already registered", path))
	}
	r.routes[path] = h
}

func (r *Router) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

func (r *Router) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	h, err := r.route(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}

func (r *Router) route(tx barter.Tx) (barter.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "transaction carries no message")
	}
	h, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", msg.Path())
	}
	return h, nil
}
