package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iov-one/barter/errors"
)

// IsCC reports whether the ticker is a valid currency code, three or four
// upper case letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxInt is the largest whole value of a coin.
	MaxInt int64 = 999999999999999 // 10^15-1
	MinInt       = -MaxInt

	// FracUnit is the number of fractional units in one whole unit.
	FracUnit int64 = 1000000000 // 10^9
	MaxFrac        = FracUnit - 1
	MinFrac        = -MaxFrac

	fracDigits = 9
)

func NewCoin(whole, fractional int64, ticker string) Coin {
	return Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
}

func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// Add sums two coins of the same currency. A zero coin without a ticker
// is neutral and can be added to anything.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.IsZero():
		return o, nil
	case o.Ticker == "" && o.IsZero():
		return c, nil
	case c.Ticker != o.Ticker:
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "cannot add %s to %s", o.Ticker, c.Ticker)
	}
	sum, err := Coin{
		Whole:      c.Whole + o.Whole,
		Fractional: c.Fractional + o.Fractional,
		Ticker:     c.Ticker,
	}.normalize()
	if err != nil {
		return Coin{}, errors.Wrapf(err, "%s + %s", c, o)
	}
	return sum, nil
}

// normalize carries the fractional overflow into the whole part and
// aligns the signs of both parts.
func (c Coin) normalize() (Coin, error) {
	if c.Fractional > MaxFrac || c.Fractional < MinFrac {
		c.Whole += c.Fractional / FracUnit
		c.Fractional %= FracUnit
	}
	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole--
		c.Fractional += FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole++
		c.Fractional -= FracUnit
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.ErrOverflow
	}
	return c, nil
}

func (c Coin) Negative() Coin {
	return Coin{Whole: -c.Whole, Fractional: -c.Fractional, Ticker: c.Ticker}
}

func (c Coin) Subtract(o Coin) (Coin, error) {
	return c.Add(o.Negative())
}

// Compare compares the values of normalized coins. The currency is
// ignored.
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Whole > o.Whole:
		return 1
	case c.Whole < o.Whole:
		return -1
	case c.Fractional > o.Fractional:
		return 1
	case c.Fractional < o.Fractional:
		return -1
	}
	return 0
}

func (c Coin) Equals(o Coin) bool {
	return c == o
}

// IsGTE is true if o has the same currency and at most the same value.
func (c Coin) IsGTE(o Coin) bool {
	return c.Ticker == o.Ticker && c.Compare(o) >= 0
}

func (c Coin) IsZero() bool { return c.Whole == 0 && c.Fractional == 0 }

func (c Coin) IsPositive() bool {
	return c.Whole > 0 || (c.Whole == 0 && c.Fractional > 0)
}

func (c Coin) IsNonNegative() bool { return c.Whole >= 0 && c.Fractional >= 0 }

// IsEmpty is true for nil and zero coins.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate checks the ticker, the range of both parts and that their signs
// agree. Negative values are valid here, business rules must reject them
// where needed.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.Append(err, errors.Wrapf(errors.ErrOverflow, "whole %d", c.Whole))
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrapf(errors.ErrOverflow, "fractional %d", c.Fractional))
	}
	if (c.Whole > 0 && c.Fractional < 0) || (c.Whole < 0 && c.Fractional > 0) {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// String returns "<whole>[.<fraction>] <ticker>", the format
// ParseHumanFormat reads. Trailing zeros of the fraction are dropped.
func (c Coin) String() string {
	var b strings.Builder
	whole, frac := c.Whole, c.Fractional
	if whole < 0 || frac < 0 {
		b.WriteByte('-')
		whole, frac = -whole, -frac
	}
	b.WriteString(strconv.FormatInt(whole, 10))
	if frac != 0 {
		digits := fmt.Sprintf("%0*d", fracDigits, frac)
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(digits, "0"))
	}
	if c.Ticker != "" {
		b.WriteByte(' ')
		b.WriteString(c.Ticker)
	}
	return b.String()
}

var humanFormat = regexp.MustCompile(`^(-?)\s*(\d+)(?:\.(\d{1,9}))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat reads a coin written as "<whole>[.<fraction>] <ticker>",
// for example "100 BTR" or "20.25 XTR". The space is optional and the
// fraction has at most nine digits.
func ParseHumanFormat(s string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(s)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid coin %q", s)
	}
	whole, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || whole > MaxInt {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid whole amount %q", m[2])
	}
	var frac int64
	if m[3] != "" {
		// Pad to nine digits, so ".5" reads as half a unit.
		padded := m[3] + strings.Repeat("0", fracDigits-len(m[3]))
		if frac, err = strconv.ParseInt(padded, 10, 64); err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid fraction %q", m[3])
		}
	}
	if m[1] == "-" {
		whole, frac = -whole, -frac
	}
	return NewCoin(whole, frac, m[4]), nil
}

// Set implements flag.Value.
func (c *Coin) Set(s string) error {
	parsed, err := ParseHumanFormat(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalJSON accepts either the human format string or an object with
// whole, fractional and ticker fields.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if json.Unmarshal(raw, &human) == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var obj struct {
		Whole      int64  `json:"whole"`
		Fractional int64  `json:"fractional"`
		Ticker     string `json:"ticker"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	*c = NewCoin(obj.Whole, obj.Fractional, obj.Ticker)
	return nil
}
