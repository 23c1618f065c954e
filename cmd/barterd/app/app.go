// Package app assembles the barterd application: the decorator chain, the
// message routes of cash, sigs and escrow, their genesis loaders and the
// persistent store.
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/app"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/store/iavl"
	"github.com/iov-one/barter/x"
	"github.com/iov-one/barter/x/cash"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
	"github.com/iov-one/barter/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator trusts signatures only. Escrow conditions are added by
// the escrow handlers themselves.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators run in front of every handler. The
// savepoint for Deliver sits after signature verification so that nonces
// are consumed even when the message fails.
func Chain(reg prometheus.Registerer) (app.Decorators, error) {
	metrics, err := utils.NewMetrics(reg)
	if err != nil {
		return app.Decorators{}, errors.Wrap(err, "metrics")
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	), nil
}

// Router registers the handlers of every extension.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, auth, bank)
	sigs.RegisterRoutes(r, auth)
	escrow.RegisterRoutes(r, auth, bank)
	return r
}

// QueryRouter serves "/wallets", "/auth", "/escrows", "/offers" and raw keys
// under "/".
func QueryRouter() barter.QueryRouter {
	r := barter.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		escrow.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack is the router behind the decorator chain.
func Stack(reg prometheus.Registerer) (barter.Handler, error) {
	chain, err := Chain(reg)
	if err != nil {
		return nil, err
	}
	return chain.WithHandler(Router(Authenticator())), nil
}

// Application builds the ABCI application over the store at dbPath. An
// empty path keeps everything in memory.
func Application(name string, h barter.Handler, decoder barter.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, decoder, h, debug), nil
}

// CommitKVStore opens the iavl store at dbPath. A ".db" suffix is
// ignored because the backend appends it on its own.
func CommitKVStore(dbPath string) (barter.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q", dbPath)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path)), nil
}
