package barter_test

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFormats(t *testing.T) {
	Convey("Given the address of a signature condition", t, func() {
		cond := barter.NewCondition("sigs", "ed25519", []byte("maker key"))
		addr := cond.Address()

		So(addr, ShouldHaveLength, barter.AddressLength)
		So(addr.Validate(), ShouldBeNil)

		Convey("String is upper case hex", func() {
			So(addr.String(), ShouldEqual, strings.ToUpper(hex.EncodeToString(addr)))
			So(barter.Address(nil).String(), ShouldEqual, "(nil)")
		})

		Convey("JSON round trips through upper case hex", func() {
			raw, err := json.Marshal(addr)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `"`+addr.String()+`"`)

			var loaded barter.Address
			So(json.Unmarshal(raw, &loaded), ShouldBeNil)
			So(loaded.Equals(addr), ShouldBeTrue)
		})

		Convey("bech32 encoding can be parsed back", func() {
			enc, err := addr.Bech32("tbart")
			So(err, ShouldBeNil)
			So(enc, ShouldStartWith, "tbart1")

			parsed, err := barter.ParseAddress("bech32:" + enc)
			So(err, ShouldBeNil)
			So(parsed.Equals(addr), ShouldBeTrue)
		})
	})
}

func TestParseAddress(t *testing.T) {
	addr := barter.NewCondition("sigs", "ed25519", []byte("taker key")).Address()
	b32, err := addr.Bech32("tbart")
	require.NoError(t, err)

	cases := map[string]struct {
		input   string
		want    barter.Address
		wantErr *errors.Error
	}{
		"plain hex":          {input: hex.EncodeToString(addr), want: addr},
		"upper case hex":     {input: addr.String(), want: addr},
		"hex prefix":         {input: "hex:" + hex.EncodeToString(addr), want: addr},
		"bech32":             {input: "bech32:" + b32, want: addr},
		"condition":          {input: "cond:escrow/seed/0a0b", want: barter.NewCondition("escrow", "seed", []byte{10, 11}).Address()},
		"empty":              {input: ""},
		"empty hex":          {input: "hex:"},
		"short hex":          {input: "6865782d61646472", wantErr: errors.ErrInvalidInput},
		"not hex":            {input: "hex:zz", wantErr: errors.ErrInvalidInput},
		"condition w/o type": {input: "cond:escrow/0a0b", wantErr: errors.ErrInvalidInput},
		"condition bad data": {input: "cond:escrow/seed/zz", wantErr: errors.ErrInvalidInput},
		"broken bech32":      {input: "bech32:tbart1xxxx", wantErr: errors.ErrInvalidInput},
		"unknown format":     {input: "base64:AAAA", wantErr: errors.ErrInvalidType},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := barter.ParseAddress(tc.input)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			raw, err := json.Marshal(tc.input)
			require.NoError(t, err)
			var fromJSON barter.Address
			require.NoError(t, json.Unmarshal(raw, &fromJSON))
			assert.Equal(t, tc.want, fromJSON)
		})
	}
}
