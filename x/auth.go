package x

import (
	"github.com/iov-one/barter"
)

// Authenticator reveals who authorized the current transaction. Handlers
// receive it in their constructor so that the source of the conditions
// (signatures, escrow self authorization) stays pluggable.
type Authenticator interface {
	// GetConditions returns every condition fulfilled by the transaction.
	GetConditions(barter.Context) []barter.Condition
	// HasAddress reports whether any fulfilled condition has this address.
	HasAddress(barter.Context, barter.Address) bool
}

// MultiAuth merges the conditions of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

// ChainAuth merges given authenticators. Conditions keep the order of the
// authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

func (m MultiAuth) GetConditions(ctx barter.Context) []barter.Condition {
	var conds []barter.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx barter.Context, addr barter.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first fulfilled condition or nil. Messages that
// leave their actor empty act on behalf of this condition.
func MainSigner(ctx barter.Context, auth Authenticator) barter.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
