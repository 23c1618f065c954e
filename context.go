/*
Package barter defines the interfaces shared by every part of the escrow
application: storage, transactions, handlers, decorators and queries.

Request scoped data travels in a context.Context. For every value T that
the context carries there is a pair of helpers

	WithT(Context, T) Context
	GetT(Context) (T, bool)

Block values (height, header, chain id) can be set only once. Setting them
again panics, so that no handler can rewrite them for the handlers below.
*/
package barter

import (
	"context"
	"regexp"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is an alias so that extensions do not need to import the
// context package.
type Context = context.Context

type ctxKey int

const (
	headerKey ctxKey = iota
	heightKey
	chainIDKey
	loggerKey
)

var (
	// DefaultLogger is returned by GetLogger when no logger was set.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID reports whether the value can be used as a chain id.
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// WithHeader binds the block header to the context.
func WithHeader(ctx Context, header abci.Header) Context {
	if _, ok := GetHeader(ctx); ok {
		panic("header already set")
	}
	return context.WithValue(ctx, headerKey, header)
}

// GetHeader returns the current block header.
func GetHeader(ctx Context) (abci.Header, bool) {
	h, ok := ctx.Value(headerKey).(abci.Header)
	return h, ok
}

// WithHeight binds the block height to the context.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("height already set")
	}
	return context.WithValue(ctx, heightKey, height)
}

// GetHeight returns the current block height.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// WithChainID binds the chain id to the context. It panics if the id is
// not valid or was already set.
func WithChainID(ctx Context, chainID string) Context {
	if _, ok := ctx.Value(chainIDKey).(string); ok {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic("invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, chainIDKey, chainID)
}

// GetChainID returns the chain id. The application sets it before any
// transaction is processed, so a missing value is a programming error and
// panics.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("chain id not set")
	}
	return id
}

// WithLogger replaces the logger of the context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the context logger or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}

// WithLogInfo returns a context whose logger adds given key/value pairs to
// every entry.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}
