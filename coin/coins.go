package coin

import (
	"sort"

	"github.com/iov-one/barter/errors"
)

// Coins is a wallet content: at most one coin per ticker, sorted by
// ticker, without zero amounts. Operations expect and keep that form, use
// NormalizeCoins on data coming from outside.
type Coins []*Coin

// CombineCoins sums the given coins into a normalized set.
func CombineCoins(cs ...Coin) (Coins, error) {
	var (
		res Coins
		err error
	)
	for _, c := range cs {
		if res, err = res.Add(c); err != nil {
			return nil, err
		}
	}
	return res, res.Validate()
}

// Clone returns a deep copy.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// search returns the position of ticker, or where it would be inserted.
func (cs Coins) search(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}

// Add returns the set increased by c. A currency whose amount drops to
// zero is removed. The receiver may be modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	i, found := cs.search(c.Ticker)
	if !found {
		cs = append(cs, nil)
		copy(cs[i+1:], cs[i:])
		cs[i] = &c
		return cs, nil
	}
	sum, err := cs[i].Add(c)
	if err != nil {
		return nil, err
	}
	if sum.IsZero() {
		return append(cs[:i], cs[i+1:]...), nil
	}
	cs[i] = &sum
	return cs, nil
}

// Subtract returns the set decreased by c. Amounts may become negative.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Combine returns a new set holding the sum of both. Neither input is
// modified.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	for _, c := range o {
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Contains reports whether the set holds at least c. It is false for any
// ticker the set does not hold.
func (cs Coins) Contains(c Coin) bool {
	i, found := cs.search(c.Ticker)
	return found && cs[i].Compare(c) >= 0
}

// Balance returns the held amount of ticker, zero if none.
func (cs Coins) Balance(ticker string) Coin {
	if i, found := cs.search(ticker); found {
		return *cs[i]
	}
	return Coin{Ticker: ticker}
}

func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive is true for a non empty set of positive amounts.
func (cs Coins) IsPositive() bool {
	return len(cs) > 0 && cs.IsNonNegative()
}

// IsNonNegative is true if no amount is negative. Zero amounts are never
// stored, so this is the same as all amounts being positive.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsNonNegative() {
			return false
		}
	}
	return true
}

func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if !c.Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate checks every coin and the normalized form.
func (cs Coins) Validate() error {
	var err error
	for i, c := range cs {
		err = errors.Append(err, errors.Wrap(c.Validate(), "coin"))
		if c.IsZero() {
			err = errors.Append(err, errors.Wrapf(errors.ErrState, "zero amount of %s", c.Ticker))
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "not sorted"))
		}
	}
	return err
}

// NormalizeCoins merges coins of the same ticker, drops zero amounts and
// sorts the result. Input that is already normalized is returned as is,
// an empty result is nil.
func NormalizeCoins(cs Coins) (Coins, error) {
	if isNormalized(cs) {
		if len(cs) == 0 {
			return nil, nil
		}
		return cs, nil
	}
	var (
		res Coins
		err error
	)
	for _, c := range cs {
		if c == nil {
			continue
		}
		if res, err = res.Add(*c); err != nil {
			return nil, errors.Wrap(err, "cannot sum coins")
		}
	}
	if len(res) == 0 {
		return nil, nil
	}
	return res, nil
}

func isNormalized(cs Coins) bool {
	for i, c := range cs {
		if IsEmpty(c) {
			return false
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return false
		}
	}
	return true
}
