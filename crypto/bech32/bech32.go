// Package bech32 converts between raw bytes and their bech32 text form.
// Payloads are regrouped between 8 and 5 bit words on the way.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/barter/errors"
)

// Decode returns the human readable part and the payload of s.
func Decode(s string) (hrp string, payload []byte, err error) {
	hrp, words, err := bech32.Decode(s)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInvalidInput, "bech32: %s", err)
	}
	if payload, err = regroup(words, 5, 8, false); err != nil {
		return "", nil, err
	}
	return hrp, payload, nil
}

// Encode returns payload in bech32 form with the given human readable part.
func Encode(hrp string, payload []byte) (string, error) {
	words, err := regroup(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	s, err := bech32.Encode(hrp, words)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidInput, "bech32: %s", err)
	}
	return s, nil
}

func regroup(data []byte, from, to uint8, pad bool) ([]byte, error) {
	out, err := bech32.ConvertBits(data, from, to, pad)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "regroup %d to %d bits: %s", from, to, err)
	}
	return out, nil
}
