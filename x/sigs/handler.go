package sigs

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x"
)

// RegisterRoutes registers the BumpSequenceMsg handler.
func RegisterRoutes(r barter.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, &bumpSequenceHandler{bucket: NewBucket(), auth: auth})
}

// bumpSequenceHandler raises the nonce of the main signer. Verifying the
// signature already added one, so the stored nonce grows by Increment in
// total.
type bumpSequenceHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

func (h *bumpSequenceHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	if _, _, err := h.load(ctx, db, tx); err != nil {
		return nil, err
	}
	return &barter.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	user, msg, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if extra := int64(msg.Increment) - 1; extra > 0 {
		user.Sequence += extra
		if err := h.bucket.Put(db, user.Pubkey.Address(), user); err != nil {
			return nil, errors.Wrap(err, "save user")
		}
	}
	return &barter.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) load(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	var user UserData
	if err := h.bucket.One(db, signer.Address(), &user); err != nil {
		return nil, nil, errors.Wrap(err, "signer nonce")
	}
	if user.Sequence+int64(msg.Increment) < user.Sequence {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "nonce")
	}
	return &user, &msg, nil
}
