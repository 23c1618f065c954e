package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the part of the ABCI interface that is not about
// transactions: genesis, block boundaries, commits, info and queries.
// Embed it and add CheckTx and DeliverTx to get a full application.
//
// Requests that carry no user input cannot fail gracefully. If Info,
// InitChain or Commit fail, StoreApp panics and the node stops.
type StoreApp struct {
	name   string
	logger log.Logger

	store       *CommitStore
	initializer barter.Initializer
	queryRouter barter.QueryRouter

	// chainID is empty until InitChain.
	chainID string

	// appContext lives as long as the application, blockContext is
	// replaced on every BeginBlock.
	appContext   barter.Context
	blockContext barter.Context
}

// NewStoreApp loads the latest state from the store and restores the
// chain id and height. It panics if the state cannot be read.
func NewStoreApp(name string, store barter.CommitKVStore, queryRouter barter.QueryRouter, ctx barter.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		appContext:  ctx,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = barter.WithHeight(s.appContext, last.Version)
	return s
}

// GetChainID returns the chain id or an empty string before genesis.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the initializer run on InitChain.
func (s *StoreApp) WithInit(init barter.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the application and of every context
// it creates.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.appContext = barter.WithLogger(s.appContext, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context for the block being processed.
func (s *StoreApp) BlockContext() barter.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() barter.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() barter.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.appContext = barter.WithChainID(s.appContext, chainID)
}

// loadGenesis runs once per chain. It saves the chain id and lets the
// initializer populate the state from the app_state of genesis.json.
func (s *StoreApp) loadGenesis(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state missing from genesis.json, run init first")
	}
	var opts barter.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// Info reports the last committed height and app hash, tendermint uses them
// to replay missing blocks on start.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("info", "height", last.Version, "hash", fmt.Sprintf("%X", last.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          barter.Version(),
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := barter.WithHeader(s.appContext, req.Header)
	s.blockContext = barter.WithHeight(ctx, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("commit", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the last committed state. The request path selects a
// registered query handler and may end with "?<modifier>", for example
// "/escrows/maker?prefix". Data is interpreted by the handler.
//
// Key and Value of the response are ResultSets of equal length, even when
// a single model is found.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.Index(path, "?"); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryFailure(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	if req.Height != 0 {
		return queryFailure(errors.Wrap(errors.ErrInvalidInput, "historical queries are not supported"))
	}
	last, err := s.store.CommitInfo()
	if err != nil {
		return queryFailure(err)
	}

	db := s.store.committed.CacheWrap()
	defer db.Discard()
	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryFailure(err)
	}

	res := abci.ResponseQuery{Height: last.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryFailure(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryFailure(err)
	}
	return res
}

func queryFailure(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
