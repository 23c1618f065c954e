package cash

import (
	"context"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
)

func TestSendHandler(t *testing.T) {
	sender := bartertest.NewCondition()
	rcpt := bartertest.NewCondition().Address()

	cases := map[string]struct {
		signer     barter.Condition
		msg        barter.Msg
		checkErr   *errors.Error
		deliverErr *errors.Error
		wantRcpt   int64
	}{
		"successful send": {
			signer: sender,
			msg: &SendMsg{
				Source:      sender.Address(),
				Destination: rcpt,
				Amount:      coin.NewCoinp(20, 0, "FOO"),
				Memo:        "lunch",
			},
			wantRcpt: 20,
		},
		"unsigned": {
			signer: bartertest.NewCondition(),
			msg: &SendMsg{
				Source:      sender.Address(),
				Destination: rcpt,
				Amount:      coin.NewCoinp(20, 0, "FOO"),
			},
			checkErr:   errors.ErrUnauthorized,
			deliverErr: errors.ErrUnauthorized,
		},
		"too much": {
			signer: sender,
			msg: &SendMsg{
				Source:      sender.Address(),
				Destination: rcpt,
				Amount:      coin.NewCoinp(21, 0, "FOO"),
			},
			deliverErr: errors.ErrInsufficientAmount,
		},
		"invalid message": {
			signer: sender,
			msg: &SendMsg{
				Source:      sender.Address(),
				Destination: rcpt,
			},
			checkErr:   errors.ErrAmount,
			deliverErr: errors.ErrAmount,
		},
		"wrong message type": {
			signer:     sender,
			msg:        &bartertest.Msg{RoutePath: "cash/send"},
			checkErr:   errors.ErrInvalidType,
			deliverErr: errors.ErrInvalidType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			assert.Nil(t, ctrl.IssueCoins(db, sender.Address(), coin.NewCoin(20, 0, "FOO")))

			h := NewSendHandler(&bartertest.Auth{Signer: tc.signer}, ctrl)
			tx := &bartertest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			if _, err := h.Check(context.Background(), cache, tx); !tc.checkErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := h.Deliver(context.Background(), db, tx); !tc.deliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantRcpt == 0 {
				return
			}
			got, err := ctrl.Balance(db, rcpt)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantRcpt, got.Balance("FOO").Whole)
		})
	}
}

func TestWalletQuery(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	addr := bartertest.NewCondition().Address()
	assert.Nil(t, ctrl.IssueCoins(db, addr, coin.NewCoin(5, 0, "FOO")))

	qr := barter.NewQueryRouter()
	RegisterQuery(qr)

	h := qr.Handler("/wallets")
	if h == nil {
		t.Fatal("wallets query handler not registered")
	}
	models, err := h.Query(db, "", addr)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))

	var w Wallet
	assert.Nil(t, w.Unmarshal(models[0].Value))
	assert.Equal(t, int64(5), w.Balance("FOO").Whole)
}
