package escrow

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffers(t *testing.T) {
	f := newFixture(t)
	other := bartertest.NewCondition()
	require.NoError(t, f.bank.IssueCoins(f.db, other.Address(), coin.NewCoin(10, 0, "CCC")))

	open := func(maker *bartertest.Auth, seed uint64, deposit coin.Coin) {
		_, err := f.deliver(NewMakeHandler(maker, f.bank), &MakeMsg{
			Seed:    seed,
			Deposit: &deposit,
			Receive: coin.NewCoinp(1, 0, "BBB"),
		})
		require.NoError(t, err)
	}
	open(f.authOf(f.maker), 2, coin.NewCoin(30, 0, "AAA"))
	open(f.authOf(f.maker), 5, coin.NewCoin(20, 0, "AAA"))
	open(f.authOf(other), 3, coin.NewCoin(10, 0, "CCC"))

	ctrl := NewController(NewBucket(), f.bank)

	all, err := ctrl.Offers(f.db, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(5), all[0].Escrow.Seed)
	assert.Equal(t, uint64(3), all[1].Escrow.Seed)
	assert.Equal(t, uint64(2), all[2].Escrow.Seed)
	assert.Equal(t, coin.NewCoinp(10, 0, "CCC"), all[1].Deposit)
	assert.Equal(t, Derive(other.Address(), 3), all[1].Address)
	assert.Equal(t, DeriveVault(all[1].Address, "CCC"), all[1].Vault)

	mine, err := ctrl.Offers(f.db, f.maker.Address())
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, uint64(5), mine[0].Escrow.Seed)
	assert.Equal(t, coin.NewCoinp(20, 0, "AAA"), mine[0].Deposit)
	assert.Equal(t, uint64(2), mine[1].Escrow.Seed)
	assert.Equal(t, coin.NewCoinp(30, 0, "AAA"), mine[1].Deposit)

	none, err := ctrl.Offers(f.db, f.taker.Address())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEscrowQuery(t *testing.T) {
	f := newFixture(t)
	addr := f.make(t, 1)

	qr := barterQueryRouter()
	models, err := qr.Handler("/escrows").Query(f.db, "", addr)
	require.NoError(t, err)
	require.Len(t, models, 1)

	var esc Escrow
	require.NoError(t, esc.Unmarshal(models[0].Value))
	assert.Equal(t, f.maker.Address(), esc.Maker)

	byMaker, err := qr.Handler("/escrows/maker").Query(f.db, "", f.maker.Address())
	require.NoError(t, err)
	assert.Len(t, byMaker, 1)
}

func TestOffersQuery(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.bank.IssueCoins(f.db, f.maker.Address(), coin.NewCoin(100, 0, "AAA")))
	first := f.make(t, 1)
	second := f.make(t, 2)
	qr := barterQueryRouter()
	h := qr.Handler("/offers")
	require.NotNil(t, h)

	decode := func(models []barter.Model) []Offer {
		offers := make([]Offer, len(models))
		for i, m := range models {
			require.NoError(t, offers[i].Unmarshal(m.Value))
			assert.Equal(t, offers[i].Address, barter.Address(m.Key))
		}
		return offers
	}

	models, err := h.Query(f.db, "", f.maker.Address())
	require.NoError(t, err)
	offers := decode(models)
	require.Len(t, offers, 2)
	assert.Equal(t, second, offers[0].Address)
	assert.Equal(t, first, offers[1].Address)
	assert.Equal(t, coin.NewCoinp(100, 0, "AAA"), offers[1].Deposit)
	assert.Equal(t, DeriveVault(first, "AAA"), offers[1].Vault)
	assert.Equal(t, f.maker.Address(), offers[1].Escrow.Maker)
	assert.Equal(t, coin.NewCoinp(50, 0, "BBB"), offers[1].Escrow.ReceiveAmount)

	models, err = h.Query(f.db, "", nil)
	require.NoError(t, err)
	assert.Len(t, models, 2)

	models, err = h.Query(f.db, "", f.taker.Address())
	require.NoError(t, err)
	assert.Empty(t, models)

	_, err = h.Query(f.db, "", []byte("short"))
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)
	_, err = h.Query(f.db, barter.PrefixQueryMod, nil)
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)
}

func barterQueryRouter() barter.QueryRouter {
	qr := barter.NewQueryRouter()
	RegisterQuery(qr)
	return qr
}
