package cash

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x"
)

// Controller is the functionality needed by cash.Handler and by other
// extensions that move funds.
type Controller interface {
	// Balance returns all coins held by given address. It returns
	// ErrNotFound if no wallet exists under that address.
	Balance(db barter.ReadOnlyKVStore, addr barter.Address) (coin.Coins, error)

	// Transfer moves amount from src to dest. The authority of the src
	// wallet (or src itself, if the wallet names no authority) must be
	// present in the context. The destination wallet is created if
	// missing.
	Transfer(ctx barter.Context, db barter.KVStore, auth x.Authenticator, src, dest barter.Address, amount coin.Coin) error

	// CanReceive returns the error a transfer of amount to addr would fail
	// with on the recipient side, for example a ticker lock. Nothing is
	// written.
	CanReceive(db barter.ReadOnlyKVStore, addr barter.Address, amount coin.Coin) error

	// IssueCoins adds the given amount of coins to the destination
	// address. The amount may be negative, but the wallet balance may not
	// drop below zero.
	IssueCoins(db barter.KVStore, dest barter.Address, amount coin.Coin) error

	// CreateAccount creates an empty wallet. The authority and ticker are
	// both optional. It returns ErrDuplicate if the wallet exists.
	CreateAccount(db barter.KVStore, addr, authority barter.Address, ticker string) error

	// CloseAccount moves everything the wallet holds to beneficiary and
	// deletes the wallet. The same authorization rules as for Transfer
	// apply.
	CloseAccount(ctx barter.Context, db barter.KVStore, auth x.Authenticator, addr, beneficiary barter.Address) error
}

// BaseController is a simple implementation of controller
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db barter.ReadOnlyKVStore, addr barter.Address) (coin.Coins, error) {
	var w Wallet
	if err := c.bucket.One(db, addr, &w); err != nil {
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
	return coin.Coins(w.Coins), nil
}

func (c BaseController) Transfer(ctx barter.Context, db barter.KVStore, auth x.Authenticator, src, dest barter.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if err := authorize(ctx, auth, src, sender); err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.loadOrEmpty(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return errors.Wrap(err, "recipient")
	}

	if err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) CanReceive(db barter.ReadOnlyKVStore, addr barter.Address, amount coin.Coin) error {
	w, err := c.loadOrEmpty(db, addr)
	if err != nil {
		return err
	}
	if err := w.Add(amount); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return nil
}

func (c BaseController) IssueCoins(db barter.KVStore, dest barter.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.loadOrEmpty(db, dest)
	if err != nil {
		return err
	}
	if err := w.Add(amount); err != nil {
		return err
	}
	if !coin.Coins(w.Coins).IsNonNegative() {
		return errors.Wrapf(errors.ErrInsufficientAmount, "cannot withdraw %s", amount.Negative())
	}
	return c.bucket.Put(db, dest, w)
}

func (c BaseController) CreateAccount(db barter.KVStore, addr, authority barter.Address, ticker string) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "wallet %s", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	w := Wallet{Authority: authority, Ticker: ticker}
	return c.bucket.Put(db, addr, &w)
}

func (c BaseController) CloseAccount(ctx barter.Context, db barter.KVStore, auth x.Authenticator, addr, beneficiary barter.Address) error {
	w, err := c.load(db, addr)
	if err != nil {
		return err
	}
	if w == nil {
		return errors.Wrapf(errors.ErrNotFound, "wallet %s", addr)
	}
	if err := authorize(ctx, auth, addr, w); err != nil {
		return err
	}

	if len(w.Coins) != 0 {
		recipient, err := c.loadOrEmpty(db, beneficiary)
		if err != nil {
			return err
		}
		for _, residual := range w.Coins {
			if err := recipient.Add(*residual); err != nil {
				return errors.Wrap(err, "beneficiary")
			}
		}
		if err := c.bucket.Put(db, beneficiary, recipient); err != nil {
			return errors.Wrap(err, "save beneficiary")
		}
	}
	return c.bucket.Delete(db, addr)
}

// load returns the wallet stored under given address or nil.
func (c BaseController) load(db barter.ReadOnlyKVStore, addr barter.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
}

func (c BaseController) loadOrEmpty(db barter.ReadOnlyKVStore, addr barter.Address) (*Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	w, err := c.load(db, addr)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = &Wallet{}
	}
	return w, nil
}

// authorize returns an error unless the context carries a signature of the
// party allowed to spend from given wallet.
func authorize(ctx barter.Context, auth x.Authenticator, addr barter.Address, w *Wallet) error {
	owner := addr
	if a := w.GetAuthority(); len(a) != 0 {
		owner = a
	}
	if !auth.HasAddress(ctx, owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", owner)
	}
	return nil
}
