package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
)

// Initializer loads the escrow configuration from the genesis file.
type Initializer struct{}

var _ barter.Initializer = Initializer{}

// FromGenesis stores the escrow configuration if the genesis provides one.
// Without it the default policy applies.
func (Initializer) FromGenesis(opts barter.Options, kv barter.KVStore) error {
	err := gconf.InitConfig(kv, opts, confPkg, &Configuration{})
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
