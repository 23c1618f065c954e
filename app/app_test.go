package app

import (
	"context"
	"strings"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// setMsg stores a value under a key. It is encoded as "key=value".
type setMsg struct {
	Key, Value string
}

func (m *setMsg) Path() string { return "test/set" }

func (m *setMsg) Marshal() ([]byte, error) { return []byte(m.Key + "=" + m.Value), nil }

func (m *setMsg) Unmarshal(raw []byte) error {
	chunks := strings.SplitN(string(raw), "=", 2)
	if len(chunks) != 2 {
		return errors.Wrap(errors.ErrInvalidInput, "missing =")
	}
	m.Key, m.Value = chunks[0], chunks[1]
	return nil
}

func (m *setMsg) Validate() error {
	if m.Key == "" {
		return errors.Field("Key", errors.ErrEmpty, "")
	}
	return nil
}

type setTx struct {
	msg setMsg
}

func (tx *setTx) GetMsg() (barter.Msg, error) { return &tx.msg, nil }
func (tx *setTx) Marshal() ([]byte, error)    { return tx.msg.Marshal() }
func (tx *setTx) Unmarshal(raw []byte) error  { return tx.msg.Unmarshal(raw) }
func decodeSetTx(raw []byte) (barter.Tx, error) {
	var tx setTx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

type setHandler struct{}

func (setHandler) Check(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.CheckResult, error) {
	var msg setMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return &barter.CheckResult{GasAllocated: 10}, nil
}

func (setHandler) Deliver(ctx barter.Context, db barter.KVStore, tx barter.Tx) (*barter.DeliverResult, error) {
	var msg setMsg
	if err := barter.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if err := db.Set([]byte(msg.Key), []byte(msg.Value)); err != nil {
		return nil, err
	}
	return &barter.DeliverResult{Data: []byte(msg.Key)}, nil
}

type genesisKV struct{}

func (genesisKV) FromGenesis(opts barter.Options, db barter.KVStore) error {
	var values map[string]string
	if err := opts.ReadOptions("kv", &values); err != nil {
		return err
	}
	for k, v := range values {
		if err := db.Set([]byte(k), []byte(v)); err != nil {
			return err
		}
	}
	return nil
}

func newTestApp(t *testing.T, kv barter.CommitKVStore) BaseApp {
	t.Helper()
	r := NewRouter()
	r.Handle(&setMsg{}, setHandler{})
	qr := barter.NewQueryRouter()
	orm.RegisterQuery(qr)

	store := NewStoreApp("test", kv, qr, context.Background()).
		WithInit(ChainInitializers(genesisKV{}))
	return NewBaseApp(store, decodeSetTx, r, false)
}

func queryKey(t *testing.T, a BaseApp, key string) []barter.Model {
	t.Helper()
	res := a.Query(abci.RequestQuery{Path: "/", Data: []byte(key)})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(res.Key))
	require.NoError(t, values.Unmarshal(res.Value))
	models, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	return models
}

func TestApplicationLifecycle(t *testing.T) {
	kv := iavl.NewMemCommitStore()
	a := newTestApp(t, kv)

	a.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"kv": {"genesis": "yes"}}`),
	})
	assert.Equal(t, "test-chain-1", a.GetChainID())

	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	a.EndBlock(abci.RequestEndBlock{})
	block1 := a.Commit().Data
	assert.NotEmpty(t, block1)

	models := queryKey(t, a, "genesis")
	require.Len(t, models, 1)
	assert.Equal(t, []byte("yes"), models[0].Value)

	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
	chres := a.CheckTx([]byte("color=blue"))
	require.Equal(t, uint32(0), chres.Code, chres.Log)
	assert.Equal(t, int64(10), chres.GasWanted)
	dres := a.DeliverTx([]byte("color=blue"))
	require.Equal(t, uint32(0), dres.Code, dres.Log)
	assert.Equal(t, []byte("color"), dres.Data)

	// nothing is visible before the commit
	assert.Empty(t, queryKey(t, a, "color"))

	a.EndBlock(abci.RequestEndBlock{})
	block2 := a.Commit().Data
	assert.NotEqual(t, block1, block2)

	models = queryKey(t, a, "color")
	require.Len(t, models, 1)
	assert.Equal(t, []byte("blue"), models[0].Value)

	info := a.Info(abci.RequestInfo{})
	assert.Equal(t, int64(2), info.LastBlockHeight)
	assert.Equal(t, block2, info.LastBlockAppHash)
	assert.Equal(t, "test", info.Data)

	// state and chain id survive a restart
	restarted := newTestApp(t, kv)
	assert.Equal(t, "test-chain-1", restarted.GetChainID())
	assert.Len(t, queryKey(t, restarted, "color"), 1)
}

func TestApplicationErrors(t *testing.T) {
	a := newTestApp(t, iavl.NewMemCommitStore())
	a.InitChain(abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: []byte(`{}`)})
	a.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	// undecodable transaction
	dres := a.DeliverTx([]byte("no equal sign"))
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), dres.Code)

	// invalid message
	chres := a.CheckTx([]byte("=value"))
	assert.Equal(t, errors.ErrEmpty.ABCICode(), chres.Code)

	// unknown query path
	qres := a.Query(abci.RequestQuery{Path: "/nothing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), qres.Code)

	// genesis can be loaded only once
	assert.Panics(t, func() {
		a.InitChain(abci.RequestInitChain{ChainId: "test-chain-2", AppStateBytes: []byte(`{}`)})
	})
}

func TestInitChainRequiresAppState(t *testing.T) {
	a := newTestApp(t, iavl.NewMemCommitStore())
	assert.Panics(t, func() {
		a.InitChain(abci.RequestInitChain{ChainId: "test-chain-1"})
	})
	assert.Panics(t, func() {
		a.InitChain(abci.RequestInitChain{ChainId: "x", AppStateBytes: []byte(`{}`)})
	})
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	ok := initFunc(func(barter.Options, barter.KVStore) error {
		calls = append(calls, "ok")
		return nil
	})
	fail := initFunc(func(barter.Options, barter.KVStore) error {
		calls = append(calls, "fail")
		return errors.ErrHuman
	})

	err := ChainInitializers(ok, fail, ok).FromGenesis(nil, nil)
	assert.True(t, errors.ErrHuman.Is(err))
	assert.Equal(t, []string{"ok", "fail"}, calls)
}

type initFunc func(barter.Options, barter.KVStore) error

func (fn initFunc) FromGenesis(opts barter.Options, db barter.KVStore) error {
	return fn(opts, db)
}
