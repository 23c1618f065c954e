package crypto

import (
	"fmt"

	"github.com/iov-one/barter/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// AccountPath is the SLIP-0010 path of the n-th account derived from a
// wallet seed.
func AccountPath(n uint32) string {
	return fmt.Sprintf("m/44'/234'/%d'", n)
}

// DerivePrivKeyEd25519 derives the key at path from a wallet seed, as
// described by SLIP-0010. Only hardened paths exist for ed25519.
func DerivePrivKeyEd25519(seed []byte, path string) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
