package bartertest

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callCounter interface {
	CheckCallCount() int
	DeliverCallCount() int
	CallCount() int
}

func assertCalls(t *testing.T, c callCounter, checks, delivers int) {
	t.Helper()
	assert.Equal(t, checks, c.CheckCallCount(), "checks")
	assert.Equal(t, delivers, c.DeliverCallCount(), "delivers")
	assert.Equal(t, checks+delivers, c.CallCount(), "total")
}

func TestHandler(t *testing.T) {
	h := Handler{
		CheckResult:   barter.CheckResult{Log: "checked"},
		DeliverResult: barter.DeliverResult{Log: "delivered"},
	}
	assertCalls(t, &h, 0, 0)

	cres, err := h.Check(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "checked", cres.Log)
	cres.Log = "changed"
	assert.Equal(t, "checked", h.CheckResult.Log)

	dres, err := h.Deliver(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "delivered", dres.Log)
	assertCalls(t, &h, 1, 1)

	h.CheckErr = errors.ErrUnauthorized
	h.DeliverErr = errors.ErrNotFound
	_, err = h.Check(nil, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = h.Deliver(nil, nil, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
	assertCalls(t, &h, 2, 2)
}

func TestDecorator(t *testing.T) {
	var d Decorator
	var h Handler
	stack := Decorate(&h, &d)

	_, err := stack.Check(nil, nil, nil)
	require.NoError(t, err)
	_, err = stack.Deliver(nil, nil, nil)
	require.NoError(t, err)
	assertCalls(t, &d, 1, 1)
	assertCalls(t, &h, 1, 1)

	// A failing decorator never reaches the handler.
	d.CheckErr = errors.ErrUnauthorized
	d.DeliverErr = errors.ErrNotFound
	_, err = stack.Check(nil, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = stack.Deliver(nil, nil, nil)
	assert.True(t, errors.ErrNotFound.Is(err))
	assertCalls(t, &d, 2, 2)
	assertCalls(t, &h, 1, 1)
}
