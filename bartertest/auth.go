package bartertest

import (
	"context"
	"fmt"

	"github.com/iov-one/barter"
)

// Auth is an x.Authenticator with a fixed set of fulfilled conditions.
// Signers come first, then Signer.
type Auth struct {
	Signer  barter.Condition
	Signers []barter.Condition
}

func (a *Auth) GetConditions(barter.Context) []barter.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]barter.Condition, 0, len(a.Signers)+1)
	return append(append(conds, a.Signers...), a.Signer)
}

func (a *Auth) HasAddress(ctx barter.Context, addr barter.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator reading the conditions from the context,
// so each test case can sign with a different set.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context in which exactly conds are fulfilled.
func (a *CtxAuth) SetConditions(ctx barter.Context, conds ...barter.Condition) barter.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx barter.Context) []barter.Condition {
	switch conds := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []barter.Condition:
		return conds
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, conds))
	}
}

func (a *CtxAuth) HasAddress(ctx barter.Context, addr barter.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []barter.Condition, addr barter.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
