package bartertest

import (
	"testing"

	"github.com/iov-one/barter"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// barter.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) barter.Address {
	t.Helper()

	addr, err := barter.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
