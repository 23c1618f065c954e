package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/app"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/commands/server"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/cash"
	"github.com/iov-one/barter/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
)

// GenInitOptions creates the app_state of a development chain: a single
// account holding two tokens and owning the escrow configuration.
//
//	barterd init [ticker [ticker [address]]]
//
// Without an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	tickers := [2]string{"BTR", "XTR"}
	for i := 0; i < len(args) && i < len(tickers); i++ {
		if !coin.IsCC(args[i]) {
			return nil, errors.Wrapf(errors.ErrCurrency, "ticker %q", args[i])
		}
		tickers[i] = args[i]
	}
	if tickers[0] == tickers[1] {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "both tickers are %s", tickers[0])
	}

	var addr barter.Address
	if len(args) > 2 {
		parsed, err := barter.ParseAddress(args[2])
		if err != nil {
			return nil, err
		}
		addr = parsed
	} else {
		generated, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		addr = generated
	}

	owner := hex.EncodeToString(addr)
	state := fmt.Sprintf(`{
  "cash": [
    {"address": %q, "coins": ["123456789 %s", "123456789 %s"]}
  ],
  "conf": {
    "escrow": {"owner": %q, "allow_same_asset": false}
  }
}`, owner, tickers[0], tickers[1], owner)
	return json.RawMessage(state), nil
}

// Initializers returns every genesis loader of this application.
func Initializers() barter.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// GenerateApp creates the application for the start command. The
// database lives in the home directory, or in memory without one.
func GenerateApp(options *server.Options) (abci.Application, error) {
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "barter.db")
	}
	reg := options.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	stack, err := Stack(reg)
	if err != nil {
		return nil, err
	}
	application, err := Application("barter", stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	if options.Logger != nil {
		application.WithLogger(options.Logger)
	}
	return application, nil
}

// GenerateCoinKey creates a wallet seed and derives its first account
// key. It returns the address and the seed, path and keys as JSON, ready
// to be imported by a client.
func GenerateCoinKey() (barter.Address, string, error) {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		return nil, "", errors.Wrap(err, "read random seed")
	}
	path := crypto.AccountPath(0)
	key, err := crypto.DerivePrivKeyEd25519(seed, path)
	if err != nil {
		return nil, "", err
	}
	out := struct {
		Seed   string             `json:"seed"`
		Path   string             `json:"path"`
		Pubkey *crypto.PublicKey  `json:"pub_key"`
		Secret *crypto.PrivateKey `json:"secret"`
	}{
		Seed:   hex.EncodeToString(seed),
		Path:   path,
		Pubkey: key.PublicKey(),
		Secret: key,
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "serialize keys")
	}
	return out.Pubkey.Address(), string(raw), nil
}
