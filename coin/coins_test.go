package coin

import (
	"testing"

	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/require"
)

// mustCombineCoins has one return value for tests...
func mustCombineCoins(cs ...Coin) Coins {
	s, err := CombineCoins(cs...)
	if err != nil {
		panic(err)
	}
	return s
}

func TestMakeCoins(t *testing.T) {
	cases := map[string]struct {
		inputs   []Coin
		isEmpty  bool
		isNonNeg bool
		has      []Coin // <= the wallet
		dontHave []Coin // > or outside the wallet
		wantErr  *errors.Error
	}{
		"empty": {
			isEmpty:  true,
			isNonNeg: true,
			dontHave: []Coin{NewCoin(0, 0, "")},
		},
		"ignore 0": {
			inputs:   []Coin{NewCoin(0, 0, "FOO")},
			isEmpty:  true,
			isNonNeg: true,
			dontHave: []Coin{NewCoin(0, 0, "FOO")},
		},
		"simple": {
			inputs:   []Coin{NewCoin(40, 0, "FUD")},
			isNonNeg: true,
			has:      []Coin{NewCoin(10, 0, "FUD"), NewCoin(40, 0, "FUD")},
			dontHave: []Coin{NewCoin(41, 0, "FUD"), NewCoin(40, 0, "FUN")},
		},
		"out of order, with negative": {
			inputs:   []Coin{NewCoin(-20, 0, "FIN"), NewCoin(40, 0, "BON")},
			has:      []Coin{NewCoin(40, 0, "BON"), NewCoin(-30, 0, "FIN")},
			dontHave: []Coin{NewCoin(41, 0, "BON"), NewCoin(-19, 0, "FIN")},
		},
		"combine and remove": {
			inputs:   []Coin{NewCoin(-123, 0, "BOO"), NewCoin(123, 0, "BOO")},
			isEmpty:  true,
			isNonNeg: true,
			dontHave: []Coin{NewCoin(0, 0, "BOO")},
		},
		"safely combine": {
			inputs:   []Coin{NewCoin(12, 0, "ADA"), NewCoin(-123, 0, "BOO"), NewCoin(124, 0, "BOO")},
			isNonNeg: true,
			has:      []Coin{NewCoin(12, 0, "ADA"), NewCoin(1, 0, "BOO")},
			dontHave: []Coin{NewCoin(13, 0, "ADA"), NewCoin(2, 0, "BOO")},
		},
		"fractions carry": {
			inputs:   []Coin{NewCoin(1, 500000000, "AAA"), NewCoin(0, 750000000, "AAA")},
			isNonNeg: true,
			has:      []Coin{NewCoin(2, 250000000, "AAA"), NewCoin(2, 0, "AAA")},
			dontHave: []Coin{NewCoin(2, 250000001, "AAA"), NewCoin(3, 0, "AAA")},
		},
		"invalid currency": {
			inputs:  []Coin{NewCoin(1, 0, "AL2")},
			wantErr: errors.ErrCurrency,
		},
		"overflow": {
			inputs:  []Coin{NewCoin(MaxInt, 0, "AAA"), NewCoin(1, 0, "AAA")},
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s, err := CombineCoins(tc.inputs...)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, s.Validate())
			require.Equal(t, tc.isEmpty, s.IsEmpty())
			require.Equal(t, tc.isNonNeg, s.IsNonNegative())

			for _, h := range tc.has {
				require.True(t, s.Contains(h), "missing %s", h)
			}
			for _, d := range tc.dontHave {
				require.False(t, s.Contains(d), "unexpected %s", d)
			}
		})
	}
}

func TestCoinsCombine(t *testing.T) {
	a := mustCombineCoins(NewCoin(5, 0, "ABC"), NewCoin(10, 0, "XYZ"))
	b := mustCombineCoins(NewCoin(3, 0, "ABC"), NewCoin(-10, 0, "XYZ"), NewCoin(1, 0, "FOO"))

	total, err := a.Combine(b)
	require.NoError(t, err)
	want := mustCombineCoins(NewCoin(8, 0, "ABC"), NewCoin(1, 0, "FOO"))
	require.True(t, want.Equals(total), "got %v", total)

	// combine must not modify the source
	require.Equal(t, int64(5), a.Balance("ABC").Whole)
	require.Equal(t, NewCoin(0, 0, "NON"), a.Balance("NON"))
	require.Len(t, a, 2)
}

func TestCoinsSubtract(t *testing.T) {
	s := mustCombineCoins(NewCoin(50, 0, "ABC"))

	s, err := s.Subtract(NewCoin(20, 0, "ABC"))
	require.NoError(t, err)
	require.Equal(t, int64(30), s.Balance("ABC").Whole)

	s, err = s.Subtract(NewCoin(30, 0, "ABC"))
	require.NoError(t, err)
	require.True(t, s.IsEmpty())

	s, err = s.Subtract(NewCoin(0, 1, "ABC"))
	require.NoError(t, err)
	require.Equal(t, NewCoin(0, -1, "ABC"), s.Balance("ABC"))
	require.False(t, s.IsNonNegative())
	require.False(t, s.IsPositive())
}

func TestNormalizeCoins(t *testing.T) {
	cases := map[string]struct {
		coins Coins
		want  Coins
	}{
		"nil": {
			coins: nil,
			want:  nil,
		},
		"already normalized": {
			coins: Coins{NewCoinp(1, 0, "AAA"), NewCoinp(2, 0, "BBB")},
			want:  Coins{NewCoinp(1, 0, "AAA"), NewCoinp(2, 0, "BBB")},
		},
		"unordered": {
			coins: Coins{NewCoinp(2, 0, "BBB"), NewCoinp(1, 0, "AAA")},
			want:  Coins{NewCoinp(1, 0, "AAA"), NewCoinp(2, 0, "BBB")},
		},
		"duplicates and zeros": {
			coins: Coins{NewCoinp(2, 0, "BBB"), NewCoinp(0, 0, "CCC"), NewCoinp(3, 0, "BBB"), nil},
			want:  Coins{NewCoinp(5, 0, "BBB")},
		},
		"all cancel out": {
			coins: Coins{NewCoinp(2, 0, "BBB"), NewCoinp(-2, 0, "BBB")},
			want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := NormalizeCoins(tc.coins)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
