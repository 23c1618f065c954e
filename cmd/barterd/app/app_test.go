package app

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/app"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/commands/server"
	"github.com/iov-one/barter/crypto"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/cash"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/sigs"
	"github.com/iov-one/barter/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "test-net-22"

type account struct {
	pk  *crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{pk: crypto.GenPrivKeyEd25519()}
}

func (a *account) address() barter.Address {
	return a.pk.PublicKey().Address()
}

// testApp drives an application block by block, one transaction per block.
type testApp struct {
	t      *testing.T
	abci   abci.Application
	height int64
}

func newTestApp(t *testing.T, maker, taker *account) *testApp {
	t.Helper()
	application, err := GenerateApp(&server.Options{Logger: log.NewNopLogger()})
	require.NoError(t, err)

	genesis := fmt.Sprintf(`{
		"cash": [
			{"address": "%s", "coins": ["1000 BTR"]},
			{"address": "%s", "coins": ["500 XTR"]}
		],
		"conf": {"escrow": {"owner": "%s", "allow_same_asset": false}}
	}`, hex.EncodeToString(maker.address()), hex.EncodeToString(taker.address()), hex.EncodeToString(maker.address()))

	application.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(genesis)})
	ta := &testApp{t: t, abci: application}
	ta.height++
	application.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: ta.height, ChainID: chainID}})
	application.EndBlock(abci.RequestEndBlock{})
	application.Commit()
	return ta
}

// submit signs the message, runs it through CheckTx and DeliverTx in a new
// block and commits the block.
func (ta *testApp) submit(signer *account, msg barter.Msg) abci.ResponseDeliverTx {
	ta.t.Helper()
	tx, err := NewTx(msg)
	require.NoError(ta.t, err)
	sig, err := sigs.SignTx(signer.pk, tx, chainID, signer.seq)
	require.NoError(ta.t, err)
	// the nonce is consumed even if the message fails
	signer.seq++
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := tx.Marshal()
	require.NoError(ta.t, err)

	ta.height++
	ta.abci.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: ta.height, ChainID: chainID}})
	chres := ta.abci.CheckTx(raw)
	dres := ta.abci.DeliverTx(raw)
	assert.Equal(ta.t, chres.Code, dres.Code, "check and deliver disagree: %s / %s", chres.Log, dres.Log)
	ta.abci.EndBlock(abci.RequestEndBlock{Height: ta.height})
	ta.abci.Commit()
	return dres
}

func (ta *testApp) query(path string, data []byte) []barter.Model {
	ta.t.Helper()
	res := ta.abci.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(ta.t, uint32(0), res.Code, res.Log)
	var keys, values app.ResultSet
	require.NoError(ta.t, keys.Unmarshal(res.Key))
	require.NoError(ta.t, values.Unmarshal(res.Value))
	models, err := app.JoinResults(&keys, &values)
	require.NoError(ta.t, err)
	return models
}

func (ta *testApp) balance(addr barter.Address, ticker string) int64 {
	ta.t.Helper()
	models := ta.query("/wallets", addr)
	if len(models) == 0 {
		return 0
	}
	require.Len(ta.t, models, 1)
	var w cash.Wallet
	require.NoError(ta.t, w.Unmarshal(models[0].Value))
	return w.Balance(ticker).Whole
}

func (ta *testApp) escrows(maker barter.Address) []escrow.Escrow {
	ta.t.Helper()
	var res []escrow.Escrow
	for _, m := range ta.query("/escrows/maker", maker) {
		var e escrow.Escrow
		require.NoError(ta.t, e.Unmarshal(m.Value))
		res = append(res, e)
	}
	return res
}

func requireCode(t *testing.T, want *errors.Error, res abci.ResponseDeliverTx) {
	t.Helper()
	if want == nil {
		require.Equal(t, uint32(0), res.Code, res.Log)
		return
	}
	require.Equal(t, want.ABCICode(), res.Code, res.Log)
}

func actionTag(res abci.ResponseDeliverTx) string {
	for _, tag := range res.Tags {
		if string(tag.Key) == utils.ActionKey {
			return string(tag.Value)
		}
	}
	return ""
}

func TestMakeAndTake(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	ta := newTestApp(t, maker, taker)

	res := ta.submit(maker, &escrow.MakeMsg{
		Seed:    1,
		Deposit: coin.NewCoinp(100, 0, "BTR"),
		Receive: coin.NewCoinp(50, 0, "XTR"),
	})
	requireCode(t, nil, res)
	assert.Equal(t, "escrow/make", actionTag(res))
	escrowAddr := escrow.Derive(maker.address(), 1)
	assert.Equal(t, []byte(escrowAddr), res.Data)

	assert.EqualValues(t, 900, ta.balance(maker.address(), "BTR"))
	vault := escrow.DeriveVault(escrowAddr, "BTR")
	assert.EqualValues(t, 100, ta.balance(vault, "BTR"))
	offers := ta.escrows(maker.address())
	require.Len(t, offers, 1)
	assert.Equal(t, uint64(1), offers[0].Seed)
	assert.Equal(t, "XTR", offers[0].AssetB)

	listed := ta.query("/offers", maker.address())
	require.Len(t, listed, 1)
	var offer escrow.Offer
	require.NoError(t, offer.Unmarshal(listed[0].Value))
	assert.Equal(t, vault, offer.Vault)
	assert.Equal(t, coin.NewCoinp(100, 0, "BTR"), offer.Deposit)

	// only the maker can refund
	res = ta.submit(taker, &escrow.RefundMsg{Locator: escrow.Locator{Escrow: escrowAddr}})
	requireCode(t, errors.ErrUnauthorized, res)

	res = ta.submit(taker, &escrow.TakeMsg{Locator: escrow.Locator{Maker: maker.address(), Seed: 1}})
	requireCode(t, nil, res)
	assert.Equal(t, "escrow/take", actionTag(res))

	assert.EqualValues(t, 900, ta.balance(maker.address(), "BTR"))
	assert.EqualValues(t, 50, ta.balance(maker.address(), "XTR"))
	assert.EqualValues(t, 100, ta.balance(taker.address(), "BTR"))
	assert.EqualValues(t, 450, ta.balance(taker.address(), "XTR"))
	assert.EqualValues(t, 0, ta.balance(vault, "BTR"))
	assert.Empty(t, ta.escrows(maker.address()))
	assert.Empty(t, ta.query("/offers", nil))

	// an escrow can be taken only once
	res = ta.submit(taker, &escrow.TakeMsg{Locator: escrow.Locator{Escrow: escrowAddr}})
	requireCode(t, errors.ErrNotFound, res)
}

func TestMakeAndRefund(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	ta := newTestApp(t, maker, taker)

	for seed := uint64(1); seed <= 2; seed++ {
		res := ta.submit(maker, &escrow.MakeMsg{
			Seed:    seed,
			Deposit: coin.NewCoinp(200, 0, "BTR"),
			Receive: coin.NewCoinp(10, 0, "XTR"),
		})
		requireCode(t, nil, res)
	}
	assert.EqualValues(t, 600, ta.balance(maker.address(), "BTR"))

	offers := ta.escrows(maker.address())
	require.Len(t, offers, 2)

	// same seed cannot be used twice
	res := ta.submit(maker, &escrow.MakeMsg{
		Seed:    2,
		Deposit: coin.NewCoinp(1, 0, "BTR"),
		Receive: coin.NewCoinp(1, 0, "XTR"),
	})
	requireCode(t, errors.ErrDuplicate, res)

	// same asset on both sides is not allowed by the genesis configuration
	res = ta.submit(maker, &escrow.MakeMsg{
		Seed:    3,
		Deposit: coin.NewCoinp(1, 0, "BTR"),
		Receive: coin.NewCoinp(1, 0, "BTR"),
	})
	requireCode(t, errors.ErrInvalidInput, res)

	res = ta.submit(maker, &escrow.RefundMsg{Locator: escrow.Locator{Maker: maker.address(), Seed: 2}})
	requireCode(t, nil, res)
	assert.Equal(t, "escrow/refund", actionTag(res))
	assert.EqualValues(t, 800, ta.balance(maker.address(), "BTR"))
	assert.Len(t, ta.escrows(maker.address()), 1)

	// the owner can relax the policy
	res = ta.submit(maker, &escrow.UpdateConfigurationMsg{
		Patch: &escrow.Configuration{AllowSameAsset: true},
	})
	requireCode(t, nil, res)
	res = ta.submit(maker, &escrow.MakeMsg{
		Seed:    3,
		Deposit: coin.NewCoinp(1, 0, "BTR"),
		Receive: coin.NewCoinp(1, 0, "BTR"),
	})
	requireCode(t, nil, res)

	// nobody else can
	res = ta.submit(taker, &escrow.UpdateConfigurationMsg{
		Patch: &escrow.Configuration{AllowSameAsset: false},
	})
	requireCode(t, errors.ErrUnauthorized, res)
}

func TestSendAndBumpSequence(t *testing.T) {
	maker, taker := newAccount(), newAccount()
	ta := newTestApp(t, maker, taker)

	res := ta.submit(maker, &cash.SendMsg{
		Source:      maker.address(),
		Destination: taker.address(),
		Amount:      coin.NewCoinp(250, 0, "BTR"),
		Memo:        "for the swap",
	})
	requireCode(t, nil, res)
	assert.EqualValues(t, 250, ta.balance(taker.address(), "BTR"))

	res = ta.submit(taker, &sigs.BumpSequenceMsg{Increment: 5})
	requireCode(t, nil, res)
	taker.seq += 4

	nonces := ta.query("/auth", taker.address())
	require.Len(t, nonces, 1)
	var user sigs.UserData
	require.NoError(t, user.Unmarshal(nonces[0].Value))
	assert.Equal(t, taker.seq, user.Sequence)

	// a stale nonce is rejected
	taker.seq = 0
	res = ta.submit(taker, &cash.SendMsg{
		Source:      taker.address(),
		Destination: maker.address(),
		Amount:      coin.NewCoinp(1, 0, "BTR"),
	})
	requireCode(t, sigs.ErrInvalidSequence, res)
}
