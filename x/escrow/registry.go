package escrow

import (
	"encoding/binary"

	"github.com/iov-one/barter"
)

const (
	conditionExt  = "escrow"
	conditionSeed = "seed"
	conditionVlt  = "vault"
)

// DerivationSeeds returns the bytes an escrow address is derived from:
// the maker address followed by the seed as a little endian 64 bit number.
func DerivationSeeds(maker barter.Address, seed uint64) []byte {
	raw := make([]byte, len(maker)+8)
	copy(raw, maker)
	binary.LittleEndian.PutUint64(raw[len(maker):], seed)
	return raw
}

// Condition returns the signing condition of an escrow created from given
// derivation seeds.
func Condition(seeds []byte) barter.Condition {
	return barter.NewCondition(conditionExt, conditionSeed, seeds)
}

// Derive returns the address of the escrow a maker creates with given seed.
// The same input always produces the same address.
func Derive(maker barter.Address, seed uint64) barter.Address {
	return Condition(DerivationSeeds(maker, seed)).Address()
}

// VaultCondition returns the condition the vault address of an escrow
// holding given asset is derived from.
func VaultCondition(escrow barter.Address, assetA string) barter.Condition {
	data := make([]byte, 0, len(escrow)+len(assetA))
	data = append(data, escrow...)
	data = append(data, assetA...)
	return barter.NewCondition(conditionExt, conditionVlt, data)
}

// DeriveVault returns the address of the wallet holding the deposit of an
// escrow.
func DeriveVault(escrow barter.Address, assetA string) barter.Address {
	return VaultCondition(escrow, assetA).Address()
}
