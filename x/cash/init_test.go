package cash

import (
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"cash": [
			{
				"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
				"coins": ["5 FOO", {"whole": 10, "ticker": "BAR"}]
			},
			{
				"address": "hex:0102030405060708090021222324252627282930",
				"authority": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
				"ticker": "FOO"
			}
		]
	}`

	var opts barter.Options
	assert.Nil(t, toOptions(genesis, &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController(NewBucket())
	first, err := barter.ParseAddress("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
	assert.Nil(t, err)
	coins, err := ctrl.Balance(db, first)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), coins.Balance("FOO").Whole)
	assert.Equal(t, int64(10), coins.Balance("BAR").Whole)

	second, err := barter.ParseAddress("0102030405060708090021222324252627282930")
	assert.Nil(t, err)
	var w Wallet
	assert.Nil(t, NewBucket().One(db, second, &w))
	assert.Equal(t, "FOO", w.Ticker)
	assert.Equal(t, first, w.Authority)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"no data": {
			genesis: `{}`,
		},
		"other module": {
			genesis: `{"foo": "bar"}`,
		},
		"bad address": {
			genesis: `{"cash": [{"address": "1234"}]}`,
			wantErr: errors.ErrInvalidInput,
		},
		"bad coin": {
			genesis: `{"cash": [{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "coins": ["5 foo"]}]}`,
			wantErr: errors.ErrInvalidInput,
		},
		"ticker lock violated": {
			genesis: `{"cash": [{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "ticker": "BAR", "coins": ["5 FOO"]}]}`,
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts barter.Options
			assert.Nil(t, toOptions(tc.genesis, &opts))
			err := Initializer{}.FromGenesis(opts, store.MemStore())
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
