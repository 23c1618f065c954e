package crypto

import (
	"github.com/gogo/protobuf/proto"
)

// PublicKey is the serializable form of a public key. Only ed25519 keys are
// supported.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// PrivateKey is the serializable form of a private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signature is the serializable form of a signature created with a private
// key.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PublicKey) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

func (m *PrivateKey) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

func (m *Signature) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

func (m *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*publicKeyCodec)(m))
}

func (m *PublicKey) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*publicKeyCodec)(m))
}

func (m *PrivateKey) Marshal() ([]byte, error) {
	return proto.Marshal((*privateKeyCodec)(m))
}

func (m *PrivateKey) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*privateKeyCodec)(m))
}

func (m *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signatureCodec)(m))
}

func (m *Signature) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*signatureCodec)(m))
}

// Codec types share the field layout of the public types and carry only the
// methods required by the protobuf runtime.

type publicKeyCodec PublicKey

func (m *publicKeyCodec) Reset()         { *m = publicKeyCodec{} }
func (m *publicKeyCodec) String() string { return proto.CompactTextString(m) }
func (*publicKeyCodec) ProtoMessage()    {}

type privateKeyCodec PrivateKey

func (m *privateKeyCodec) Reset()         { *m = privateKeyCodec{} }
func (m *privateKeyCodec) String() string { return proto.CompactTextString(m) }
func (*privateKeyCodec) ProtoMessage()    {}

type signatureCodec Signature

func (m *signatureCodec) Reset()         { *m = signatureCodec{} }
func (m *signatureCodec) String() string { return proto.CompactTextString(m) }
func (*signatureCodec) ProtoMessage()    {}
