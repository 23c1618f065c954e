package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/cash"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
)

// Tx carries a single message together with the signatures authorizing it.
// The message is stored serialized, next to the path used to decode it.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	MsgPath    string               `protobuf:"bytes,2,opt,name=msg_path,json=msgPath,proto3" json:"msg_path,omitempty"`
	MsgBytes   []byte               `protobuf:"bytes,3,opt,name=msg_bytes,json=msgBytes,proto3" json:"msg_bytes,omitempty"`
}

// make sure tx fulfills all interfaces
var _ barter.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// messages lists every message this application can decode, by path.
var messages = map[string]func() barter.Msg{}

func init() {
	register := func(fns ...func() barter.Msg) {
		for _, fn := range fns {
			messages[fn().Path()] = fn
		}
	}
	register(
		func() barter.Msg { return &cash.SendMsg{} },
		func() barter.Msg { return &sigs.BumpSequenceMsg{} },
		func() barter.Msg { return &escrow.MakeMsg{} },
		func() barter.Msg { return &escrow.TakeMsg{} },
		func() barter.Msg { return &escrow.RefundMsg{} },
		func() barter.Msg { return &escrow.UpdateConfigurationMsg{} },
	)
}

// NewTx wraps given message into an unsigned transaction.
func NewTx(msg barter.Msg) (*Tx, error) {
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize message")
	}
	return &Tx{MsgPath: msg.Path(), MsgBytes: raw}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (barter.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return tx, nil
}

// GetMsg decodes the carried message using the type registered for its
// path.
func (tx *Tx) GetMsg() (barter.Msg, error) {
	fn, ok := messages[tx.MsgPath]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown message path %q", tx.MsgPath)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.MsgBytes); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%s: %s", tx.MsgPath, err)
	}
	return msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	if tx != nil {
		return tx.Signatures
	}
	return nil
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txCodec)(tx))
}

func (tx *Tx) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*txCodec)(tx))
}

type txCodec Tx

func (m *txCodec) Reset()         { *m = txCodec{} }
func (m *txCodec) String() string { return proto.CompactTextString(m) }
func (*txCodec) ProtoMessage()    {}
