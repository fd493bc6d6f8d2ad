package custody_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	_, ok := custody.GetHeight(bg)
	assert.False(t, ok)
	ctx := custody.WithHeight(bg, 7)
	height, ok := custody.GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), height)
	assert.Panics(t, func() { custody.WithHeight(ctx, 8) })

	assert.Equal(t, "", custody.GetChainID(bg))
	ctx = custody.WithChainID(ctx, "custody-test")
	assert.Equal(t, "custody-test", custody.GetChainID(ctx))
	assert.Panics(t, func() { custody.WithChainID(bg, "no") })

	assert.NotNil(t, custody.GetLogger(bg))
	logger := log.NewNopLogger()
	assert.Equal(t, logger, custody.GetLogger(custody.WithLogger(bg, logger)))
}

func TestIsValidChainID(t *testing.T) {
	assert.True(t, custody.IsValidChainID("custody-dev"))
	assert.True(t, custody.IsValidChainID("eas_chain-42"))
	assert.False(t, custody.IsValidChainID("short"))
	assert.False(t, custody.IsValidChainID("has space in it"))
	assert.False(t, custody.IsValidChainID("way-too-long-for-a-chain-id"))
}
