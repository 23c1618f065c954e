package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x"
	"github.com/iov-one/barter/x/cash"
)

const (
	makeEscrowCost   int64 = 300
	takeEscrowCost   int64 = 300
	refundEscrowCost int64 = 100
)

// RegisterQuery will register the escrow bucket as "/escrows". Escrows of a
// single maker are available at "/escrows/maker". "/offers" lists open
// offers with their vault balances.
func RegisterQuery(qr barter.QueryRouter) {
	bucket := NewBucket()
	bucket.Register("escrows", qr)
	qr.Register("/offers", offersQuery{ctrl: NewController(bucket, cash.NewController(cash.NewBucket()))})
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r barter.Registry, auth x.Authenticator, cashctrl cash.Controller) {
	r.Handle(&MakeMsg{}, NewMakeHandler(auth, cashctrl))
	r.Handle(&TakeMsg{}, NewTakeHandler(auth, cashctrl))
	r.Handle(&RefundMsg{}, NewRefundHandler(auth, cashctrl))
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth, nil))
}

// MakeHandler creates escrows and funds their vaults.
type MakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ barter.Handler = MakeHandler{}

// NewMakeHandler returns a handler for MakeMsg.
func NewMakeHandler(auth x.Authenticator, bank cash.Controller) MakeHandler {
	return MakeHandler{auth: auth, bucket: NewBucket(), bank: bank}
}

func (h MakeHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: makeEscrowCost}, nil
}

// Deliver stores the escrow, opens its vault and moves the deposit from
// the maker into the vault.
func (h MakeHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key := esc.Address()
	if err := h.bucket.Put(db, key, esc); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	vault := esc.Vault()
	if err := h.bank.CreateAccount(db, vault, key, esc.AssetA); err != nil {
		return nil, errors.Wrap(err, "cannot create vault")
	}
	if err := h.bank.Transfer(ctx, db, h.auth, esc.Maker, vault, *msg.Deposit); err != nil {
		return nil, errors.Wrap(err, "cannot fund vault")
	}

	barter.GetLogger(ctx).Debug("escrow made",
		"escrow", key, "maker", esc.Maker, "seed", esc.Seed,
		"deposit", msg.Deposit.String(), "receive", msg.Receive.String())
	return &barter.DeliverResult{Data: key}, nil
}

func (h MakeHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*MakeMsg, *Escrow, error) {
	var msg MakeMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	maker := msg.Maker
	if len(maker) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		maker = signer.Address()
	}
	if !h.auth.HasAddress(ctx, maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}

	conf, err := loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	if !conf.AllowSameAsset && msg.Deposit.Ticker == msg.Receive.Ticker {
		return nil, nil, errors.Wrapf(errors.ErrInvalidInput, "cannot trade %s for itself", msg.Deposit.Ticker)
	}

	esc := &Escrow{
		Seed:          msg.Seed,
		Maker:         maker,
		AssetA:        msg.Deposit.Ticker,
		AssetB:        msg.Receive.Ticker,
		ReceiveAmount: msg.Receive.Clone(),
		DerivationTag: DerivationSeeds(maker, msg.Seed),
	}
	if err := esc.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid escrow")
	}

	switch err := h.bucket.Has(db, esc.Address()); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow with seed %d", msg.Seed)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}
	// Anyone can send funds to the vault address before it is opened.
	switch _, err := h.bank.Balance(db, esc.Vault()); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "vault %s", esc.Vault())
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}

	if err := requireFunds(db, h.bank, maker, *msg.Deposit); err != nil {
		return nil, nil, errors.Wrap(err, "maker")
	}
	return &msg, esc, nil
}

// TakeHandler settles an offer with a taker.
type TakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ barter.Handler = TakeHandler{}

// NewTakeHandler returns a handler for TakeMsg.
func NewTakeHandler(auth x.Authenticator, bank cash.Controller) TakeHandler {
	return TakeHandler{auth: auth, bucket: NewBucket(), bank: bank}
}

func (h TakeHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: takeEscrowCost}, nil
}

// Deliver pays the maker, hands the vault content to the taker and removes
// the escrow.
func (h TakeHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	key, esc, taker, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.bank.Transfer(ctx, db, h.auth, taker, esc.Maker, *esc.ReceiveAmount); err != nil {
		return nil, errors.Wrap(err, "cannot pay maker")
	}
	if err := release(ctx, db, h.bank, esc, taker); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, key); err != nil {
		return nil, errors.Wrap(err, "cannot delete escrow")
	}

	barter.GetLogger(ctx).Debug("escrow taken",
		"escrow", key, "maker", esc.Maker, "taker", taker)
	return &barter.DeliverResult{Data: key}, nil
}

func (h TakeHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (barter.Address, *Escrow, barter.Address, error) {
	var msg TakeMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	key := msg.Key()
	esc, err := loadEscrow(db, h.bucket, key)
	if err != nil {
		return nil, nil, nil, err
	}

	taker := msg.Taker
	if len(taker) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		taker = signer.Address()
	}
	if !h.auth.HasAddress(ctx, taker) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}

	vault, err := checkVault(db, esc)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := requireFunds(db, h.bank, taker, *esc.ReceiveAmount); err != nil {
		return nil, nil, nil, errors.Wrap(err, "taker")
	}
	if err := h.bank.CanReceive(db, esc.Maker, *esc.ReceiveAmount); err != nil {
		return nil, nil, nil, errors.Wrap(err, "maker")
	}
	if err := canReceiveVault(db, h.bank, vault, esc, taker); err != nil {
		return nil, nil, nil, errors.Wrap(err, "taker")
	}
	return key, esc, taker, nil
}

// RefundHandler cancels an offer on behalf of its maker.
type RefundHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ barter.Handler = RefundHandler{}

// NewRefundHandler returns a handler for RefundMsg.
func NewRefundHandler(auth x.Authenticator, bank cash.Controller) RefundHandler {
	return RefundHandler{auth: auth, bucket: NewBucket(), bank: bank}
}

func (h RefundHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: refundEscrowCost}, nil
}

// Deliver returns the vault content to the maker and removes the escrow.
func (h RefundHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	key, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := release(ctx, db, h.bank, esc, esc.Maker); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, key); err != nil {
		return nil, errors.Wrap(err, "cannot delete escrow")
	}
	barter.GetLogger(ctx).Debug("escrow refunded", "escrow", key, "maker", esc.Maker)
	return &barter.DeliverResult{Data: key}, nil
}

func (h RefundHandler) validate(ctx barter.Context, db barter.KVStore, tx barter.Tx) (barter.Address, *Escrow, error) {
	var msg RefundMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	// When the maker is named, the signature is verified before the
	// escrow is looked up so that nothing is revealed to other parties.
	if len(msg.Maker) != 0 && !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	key := msg.Key()
	esc, err := loadEscrow(db, h.bucket, key)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, esc.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	vault, err := checkVault(db, esc)
	if err != nil {
		return nil, nil, err
	}
	if err := canReceiveVault(db, h.bank, vault, esc, esc.Maker); err != nil {
		return nil, nil, errors.Wrap(err, "maker")
	}
	return key, esc, nil
}

func loadEscrow(db barter.ReadOnlyKVStore, bucket orm.ModelBucket, key barter.Address) (*Escrow, error) {
	var esc Escrow
	if err := bucket.One(db, key, &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", key)
	}
	return &esc, nil
}

// checkVault returns the vault of given escrow. It must exist and be
// controlled by the escrow.
func checkVault(db barter.ReadOnlyKVStore, esc *Escrow) (*cash.Wallet, error) {
	var w cash.Wallet
	if err := cash.NewBucket().One(db, esc.Vault(), &w); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	if !w.Authority.Equals(esc.Address()) {
		return nil, errors.Wrap(errors.ErrState, "vault is not controlled by the escrow")
	}
	return &w, nil
}

// canReceiveVault checks that dest accepts everything release moves out of
// the vault.
func canReceiveVault(db barter.ReadOnlyKVStore, bank cash.Controller, vault *cash.Wallet, esc *Escrow, dest barter.Address) error {
	if held := vault.Balance(esc.AssetA); held.IsPositive() {
		return bank.CanReceive(db, dest, held)
	}
	return nil
}

// requireFunds returns ErrInsufficientAmount unless addr holds at least
// the given amount.
func requireFunds(db barter.ReadOnlyKVStore, bank cash.Controller, addr barter.Address, amount coin.Coin) error {
	balance, err := bank.Balance(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "no wallet, need %s", amount)
	case err != nil:
		return err
	}
	if !balance.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "need %s", amount)
	}
	return nil
}

// release moves everything the vault holds to dest and closes the vault.
// The escrow signs for the vault.
func release(ctx barter.Context, db barter.KVStore, bank cash.Controller, esc *Escrow, dest barter.Address) error {
	ctx = withEscrow(ctx, esc.Condition())
	auth := Authenticate{}
	vault := esc.Vault()

	balance, err := bank.Balance(db, vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if held := balance.Balance(esc.AssetA); held.IsPositive() {
		if err := bank.Transfer(ctx, db, auth, vault, dest, held); err != nil {
			return errors.Wrap(err, "cannot empty vault")
		}
	}
	if err := bank.CloseAccount(ctx, db, auth, vault, esc.Maker); err != nil {
		return errors.Wrap(err, "cannot close vault")
	}
	return nil
}
