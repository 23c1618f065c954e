package escrow

import (
	"context"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/x"
)

type contextKey int // local to the escrow module

const (
	contextKeyEscrow contextKey = iota
)

// withEscrow is a private method, as only this module
// can sign on behalf of an escrow
func withEscrow(ctx barter.Context, cond barter.Condition) barter.Context {
	return context.WithValue(ctx, contextKeyEscrow, cond)
}

// Authenticate returns the escrow condition granted while an offer is
// settled.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns permissions previously set on this context
func (a Authenticate) GetConditions(ctx barter.Context) []barter.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyEscrow).(barter.Condition)
	if val == nil {
		return nil
	}
	return []barter.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx barter.Context, addr barter.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
