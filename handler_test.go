package barter

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	type conf struct {
		AllowSameAsset bool `json:"allow_same_asset"`
	}

	cases := map[string]struct {
		raw     string
		key     string
		want    conf
		wantErr *errors.Error
	}{
		"value is parsed": {
			raw:  `{"escrow": {"allow_same_asset": true}}`,
			key:  "escrow",
			want: conf{AllowSameAsset: true},
		},
		"missing key is not an error": {
			raw:  `{"cash": []}`,
			key:  "escrow",
			want: conf{},
		},
		"malformed value": {
			raw:     `{"escrow": {"allow_same_asset": "maybe"}}`,
			key:     "escrow",
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts Options
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &opts))

			var got conf
			err := opts.ReadOptions(tc.key, &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestQueryRouter(t *testing.T) {
	r := NewQueryRouter()
	h := &nopQuery{}
	r.RegisterAll(func(qr QueryRouter) {
		qr.Register("/escrows", h)
	})

	assert.Equal(t, h, r.Handler("/escrows"))
	assert.Nil(t, r.Handler("/wallets"))
	assert.Panics(t, func() { r.Register("/escrows", h) })
}

type nopQuery struct{}

func (nopQuery) Query(ReadOnlyKVStore, string, []byte) ([]Model, error) {
	return nil, nil
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath("escrow/make"))
	assert.NoError(t, ValidatePath("cash/send"))
	assert.Error(t, ValidatePath(""))
	assert.Error(t, ValidatePath("escrow make"))
}
