package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/bridge-gas-oracle/gasClient/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitWritesDefaultConfig(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, "init", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "config written")

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Contains(t, cfg.Chains, config.ChainHome)
	assert.Contains(t, cfg.Chains, config.ChainForeign)

	_, err = execute(t, "init", "--home", home)
	assert.Error(t, err, "second init without --force must not overwrite")

	_, err = execute(t, "init", "--home", home, "--force")
	assert.NoError(t, err)
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME_GAS_PRICE_SPEED_TYPE", "fast")

	cfg, fromFile, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.False(t, fromFile)
	assert.Equal(t, "fast", cfg.Chains[config.ChainHome].GasPriceSpeedType)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pgasd")
}
