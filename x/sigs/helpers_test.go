package sigs

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/bartertest"
)

// StdTx adds signatures to a mock transaction. The sign bytes are the
// serialized message.
type StdTx struct {
	barter.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &bartertest.Msg{RoutePath: "test/payload", Serialized: payload}
	return &StdTx{Tx: &bartertest.Tx{Msg: msg}}
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// signerRecorder is a handler remembering the signers it was called with.
type signerRecorder struct {
	seen []barter.Condition
}

func (r *signerRecorder) Check(ctx barter.Context, _ barter.KVStore, _ barter.Tx) (*barter.CheckResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return &barter.CheckResult{}, nil
}

func (r *signerRecorder) Deliver(ctx barter.Context, _ barter.KVStore, _ barter.Tx) (*barter.DeliverResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return &barter.DeliverResult{}, nil
}
