package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the coins of a single address.
type Wallet struct {
	Coins []*coin.Coin `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins,omitempty"`
	// Authority, when set, is the only address allowed to spend from or
	// close this wallet.
	Authority barter.Address `protobuf:"bytes,2,opt,name=authority,proto3,casttype=github.com/iov-one/barter.Address" json:"authority,omitempty"`
	// Ticker, when set, is the only currency this wallet accepts.
	Ticker string `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

func (m *Wallet) GetCoins() []*coin.Coin {
	if m != nil {
		return m.Coins
	}
	return nil
}

func (m *Wallet) GetAuthority() barter.Address {
	if m != nil {
		return m.Authority
	}
	return nil
}

func (m *Wallet) GetTicker() string {
	if m != nil {
		return m.Ticker
	}
	return ""
}

func (m *Wallet) Marshal() ([]byte, error) {
	return proto.Marshal((*walletCodec)(m))
}

func (m *Wallet) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*walletCodec)(m))
}

type walletCodec Wallet

func (m *walletCodec) Reset()         { *m = walletCodec{} }
func (m *walletCodec) String() string { return proto.CompactTextString(m) }
func (*walletCodec) ProtoMessage()    {}

// Validate requires that all coins are in alphabetical order and that the
// optional authority and ticker lock are well formed.
func (m *Wallet) Validate() error {
	errs := errors.AppendField(nil, "Coins", coin.Coins(m.Coins).Validate())
	if len(m.Authority) != 0 {
		errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	}
	if m.Ticker != "" {
		if !coin.IsCC(m.Ticker) {
			errs = errors.AppendField(errs, "Ticker", errors.ErrCurrency)
		}
		for _, c := range m.Coins {
			if c.Ticker != m.Ticker {
				errs = errors.Append(errs, errors.Field("Coins", errors.ErrCurrency, "wallet accepts only %s", m.Ticker))
				break
			}
		}
	}
	return errs
}

// Balance returns the amount of given currency held.
func (m *Wallet) Balance(ticker string) coin.Coin {
	return coin.Coins(m.GetCoins()).Balance(ticker)
}

// Add modifies the wallet to add Coin c. Currencies other than the ticker
// lock are rejected.
func (m *Wallet) Add(c coin.Coin) error {
	if m.Ticker != "" && !c.IsZero() && c.Ticker != m.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "wallet accepts only %s, got %s", m.Ticker, c.Ticker)
	}
	cs, err := coin.Coins(m.Coins).Clone().Add(c)
	if err != nil {
		return err
	}
	m.Coins = cs
	return nil
}

// Subtract modifies the wallet to remove Coin c. The balance cannot go
// below zero.
func (m *Wallet) Subtract(c coin.Coin) error {
	if !coin.Coins(m.Coins).Contains(c) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "cannot take %s", c)
	}
	cs, err := coin.Coins(m.Coins).Clone().Subtract(c)
	if err != nil {
		return err
	}
	m.Coins = cs
	return nil
}

// NewBucket returns a bucket for storing wallets. Wallets are indexed by
// their authority.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{},
		orm.WithIndex("authority", authorityIndex, false))
}

func authorityIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	if len(w.Authority) == 0 {
		return nil, nil
	}
	return w.Authority, nil
}
