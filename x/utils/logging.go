package utils

import (
	"time"

	"github.com/iov-one/barter"
)

// Logging writes one log line per transaction with its route path and the
// time it took. Failures are logged as errors, delivered transactions as
// info and checked transactions as debug.
type Logging struct{}

var _ barter.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	started := time.Now()
	res, err := next.Check(ctx, store, tx)
	entry := txEntry{ctx: ctx, tx: tx, started: started, err: err}
	if err == nil {
		entry.log = res.Log
	}
	entry.write(true)
	return res, err
}

func (Logging) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	started := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	entry := txEntry{ctx: ctx, tx: tx, started: started, err: err}
	if err == nil {
		entry.log = res.Log
	}
	entry.write(false)
	return res, err
}

type txEntry struct {
	ctx     barter.Context
	tx      barter.Tx
	started time.Time
	log     string
	err     error
}

// write emits the entry even when log is empty, the path and duration are
// still useful.
func (e txEntry) write(debug bool) {
	logger := barter.GetLogger(e.ctx).With(
		"path", barter.GetPath(e.tx),
		"duration", time.Since(e.started)/time.Microsecond,
	)
	if e.err != nil {
		logger.Error(e.log, "err", e.err)
		return
	}
	if debug {
		logger.Debug(e.log)
		return
	}
	logger.Info(e.log)
}
