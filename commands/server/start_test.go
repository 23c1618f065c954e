package server

import (
	"testing"

	"github.com/iov-one/barter/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestParseFlags(t *testing.T) {
	a, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, startArgs{bind: "tcp://localhost:26658"}, a)

	a, err = parseFlags([]string{"-bind", "localhost:11122", "-debug", "-metrics", ":9090"})
	require.NoError(t, err)
	assert.Equal(t, startArgs{bind: "localhost:11122", metrics: ":9090", debug: true}, a)

	_, err = parseFlags([]string{"-unknown"})
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestStartGeneratorFailure(t *testing.T) {
	var got *Options
	gen := func(opts *Options) (types.Application, error) {
		got = opts
		return nil, errors.Wrap(errors.ErrHuman, "cannot build")
	}
	err := StartCmd(gen, log.NewNopLogger(), "/tmp/home", []string{"-debug"})
	assert.True(t, errors.ErrHuman.Is(err))
	require.NotNil(t, got)
	assert.Equal(t, "/tmp/home", got.Home)
	assert.True(t, got.Debug)
	assert.NotNil(t, got.Registry)
}
