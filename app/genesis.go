package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Genesis is the subset of the tendermint genesis.json the application
// reads.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState barter.Options `json:"app_state"`
}

// LoadGenesis reads and decodes a genesis file.
func LoadGenesis(path string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "genesis file %s: %s", path, err)
	}
	return gen, nil
}

// ChainInitializers returns an initializer calling all given ones in
// order. It stops at the first failure.
func ChainInitializers(inits ...barter.Initializer) barter.Initializer {
	return initializers(inits)
}

type initializers []barter.Initializer

func (all initializers) FromGenesis(opts barter.Options, kv barter.KVStore) error {
	for _, ini := range all {
		if err := ini.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
