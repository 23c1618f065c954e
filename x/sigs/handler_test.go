package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
)

func TestBumpSequence(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()

	cases := map[string]struct {
		signer     barter.Condition
		msg        *BumpSequenceMsg
		wantErr    *errors.Error
		wantNextSq int64
	}{
		"increment by one is a no-op": {
			signer:     pub.Condition(),
			msg:        &BumpSequenceMsg{Increment: 1},
			wantNextSq: 5,
		},
		"increment by many": {
			signer:     pub.Condition(),
			msg:        &BumpSequenceMsg{Increment: 100},
			wantNextSq: 104,
		},
		"unknown signer": {
			signer:     bartertest.NewCondition(),
			msg:        &BumpSequenceMsg{Increment: 2},
			wantErr:    errors.ErrNotFound,
			wantNextSq: 5,
		},
		"increment too big": {
			signer:     pub.Condition(),
			msg:        &BumpSequenceMsg{Increment: maxSequenceIncrement + 1},
			wantErr:    errors.ErrMsg,
			wantNextSq: 5,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewBucket()
			assert.Nil(t, b.Put(db, pub.Address(), &UserData{Pubkey: pub, Sequence: 5}))

			rt := &routerMock{}
			RegisterRoutes(rt, &bartertest.Auth{Signer: tc.signer})
			tx := &bartertest.Tx{Msg: tc.msg}

			_, err := rt.h.Check(context.Background(), db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			_, err = rt.h.Deliver(context.Background(), db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			next, err := NextNonce(db, pub.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantNextSq, next)
		})
	}
}

type routerMock struct {
	h barter.Handler
}

func (r *routerMock) Handle(m barter.Msg, h barter.Handler) {
	r.h = h
}
