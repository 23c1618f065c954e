package bartertest

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() barter.Condition {
	return NewKey().PublicKey().Condition()
}
