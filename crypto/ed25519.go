package crypto

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is the extension part of signature conditions.
const ExtensionName = "sigs"

const ed25519Type = "ed25519"

// PubKey verifies signatures and names the condition they fulfill.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() barter.Condition
}

// Signer never exposes the key itself, so it can be backed by a hardware
// wallet.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)
)

// Verify is false for malformed keys or signatures.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	key, raw := p.GetEd25519(), sig.GetEd25519()
	if len(key) != ed25519.PublicKeySize || len(raw) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(key), message, raw)
}

// Condition is nil for an empty key.
func (p *PublicKey) Condition() barter.Condition {
	key := p.GetEd25519()
	if len(key) == 0 {
		return nil
	}
	return barter.NewCondition(ExtensionName, ed25519Type, key)
}

func (p *PublicKey) Address() barter.Address {
	if c := p.Condition(); c != nil {
		return c.Address()
	}
	return nil
}

func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	key := p.GetEd25519()
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "ed25519 private key of %d bytes", len(key))
	}
	return &Signature{Ed25519: ed25519.Sign(ed25519.PrivateKey(key), message)}, nil
}

// PublicKey returns an empty key if the private key is malformed.
func (p *PrivateKey) PublicKey() *PublicKey {
	key := p.GetEd25519()
	if len(key) != ed25519.PrivateKeySize {
		return &PublicKey{}
	}
	return &PublicKey{Ed25519: ed25519.PrivateKey(key).Public().(ed25519.PublicKey)}
}

// GenPrivKeyEd25519 creates a key from the system random source.
func GenPrivKeyEd25519() *PrivateKey {
	_, key, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: key}
}

// PrivKeyEd25519FromSeed derives a key from a 32 byte seed. It panics for
// any other seed length.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
