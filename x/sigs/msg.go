package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the signer's nonce, invalidating any
// transaction signed with a skipped sequence.
type BumpSequenceMsg struct {
	// Increment is the total value the sequence is increased by,
	// including the increment done while verifying the signature.
	Increment uint32 `protobuf:"varint,2,opt,name=increment,proto3" json:"increment,omitempty"`
}

var _ barter.Msg = (*BumpSequenceMsg)(nil)

func (m *BumpSequenceMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*bumpSequenceMsgCodec)(m))
}

func (m *BumpSequenceMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*bumpSequenceMsgCodec)(m))
}

type bumpSequenceMsgCodec BumpSequenceMsg

func (m *bumpSequenceMsgCodec) Reset()         { *m = bumpSequenceMsgCodec{} }
func (m *bumpSequenceMsgCodec) String() string { return proto.CompactTextString(m) }
func (*bumpSequenceMsgCodec) ProtoMessage()    {}

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}
