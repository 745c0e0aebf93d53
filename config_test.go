// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeoffBandBoundaries(t *testing.T) {
	assert.Equal(t, TradeoffLow, tradeoffValue(0).Band())
	assert.Equal(t, TradeoffLow, tradeoffValue(1.0/3.0).Band())
	assert.Equal(t, TradeoffMid, tradeoffValue(1.0/3.0+0.0001).Band())
	assert.Equal(t, TradeoffMid, tradeoffValue(2.0/3.0).Band())
	assert.Equal(t, TradeoffHigh, tradeoffValue(2.0/3.0+0.0001).Band())
	assert.Equal(t, TradeoffHigh, tradeoffValue(1).Band())
}

func TestApplyEnvDefaultsPerfModeToComp(t *testing.T) {
	os.Unsetenv("BTUNE_PERF_MODE")
	os.Unsetenv("BTUNE_TRADEOFF")
	cfg := DefaultConfig()
	cfg = ApplyEnv(cfg, nil)
	assert.Equal(t, PerfComp, cfg.PerfMode)
}

func TestApplyEnvPerfModeFromEnv(t *testing.T) {
	t.Setenv("BTUNE_PERF_MODE", "BALANCED")
	cfg := DefaultConfig()
	cfg = ApplyEnv(cfg, nil)
	assert.Equal(t, PerfBalanced, cfg.PerfMode)
}

func TestApplyEnvInvalidPerfModeWarnsAndDefaults(t *testing.T) {
	t.Setenv("BTUNE_PERF_MODE", "NOT_A_MODE")
	cfg := DefaultConfig()
	cfg = ApplyEnv(cfg, nil)
	assert.Equal(t, PerfComp, cfg.PerfMode)
}

func TestApplyEnvTradeoffOutOfRangeDefaults(t *testing.T) {
	t.Setenv("BTUNE_TRADEOFF", "1.5")
	cfg := DefaultConfig()
	cfg = ApplyEnv(cfg, nil)
	assert.Equal(t, DefaultTradeoff, cfg.Tradeoff)
}

func TestLoadConfigFileOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "btune.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tradeoff: 0.9\nperf_mode: DECOMP\n"), 0o644))

	base := DefaultConfig()
	cfg, err := LoadConfigFile(path, base)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Tradeoff)
	assert.Equal(t, PerfDecomp, cfg.PerfMode)
	assert.Equal(t, base.Bandwidth, cfg.Bandwidth)
	assert.Equal(t, base.Behaviour, cfg.Behaviour)
}

func TestLoadConfigFileBehaviourOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "btune.yaml")
	yamlContent := "behaviour:\n  nhards_before_stop: 3\n  repeat_mode: REPEAT_SOFT\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := LoadConfigFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), cfg.Behaviour.NHardsBeforeStop)
	assert.Equal(t, RepeatSoft, cfg.Behaviour.RepeatMode)
}
