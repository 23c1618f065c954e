package app

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is the complete ABCI application. StoreApp answers the
// state related calls while every transaction is decoded and passed to
// a single handler, usually a router wrapped in decorators.
type BaseApp struct {
	*StoreApp
	decoder barter.TxDecoder
	handler barter.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp combines the store with a transaction decoder and handler.
// In debug mode internal error messages are not redacted.
func NewBaseApp(store *StoreApp, decoder barter.TxDecoder, handler barter.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare(raw, "deliver_tx")
	if err != nil {
		return barter.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return barter.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare(raw, "check_tx")
	if err != nil {
		return barter.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return barter.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and builds the context it is processed
// with. A panicking decoder is reported as ErrPanic.
func (b BaseApp) prepare(raw []byte, call string) (ctx barter.Context, tx barter.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, nil, err
	}
	ctx = barter.WithLogInfo(b.BlockContext(), "call", call, "path", barter.GetPath(tx))
	return ctx, tx, nil
}
