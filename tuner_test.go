// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine is a deterministic stand-in for a real host compressor: it
// never actually encodes/decodes bytes, but it reports throughput and a
// ratio that depend predictably on the candidate, so tests can assert
// on convergence behaviour without a real codec.
type fakeEngine struct {
	compressCalls int
}

func (f *fakeEngine) CompressInstrumented(src []byte, cparams CParams) ([]byte, Instrumentation, error) {
	f.compressCalls++
	ratio := 1.0 + float64(cparams.CLevel)*0.1
	size := int(float64(len(src)) / ratio)
	if size < 1 {
		size = 1
	}
	cspeed := 1e9 / float64(cparams.CLevel+1)
	return make([]byte, size), Instrumentation{CSpeed: cspeed, FilterSpeed: 1e9}, nil
}

func (f *fakeEngine) Decompress(cparams CParams, compressed []byte, srcSize int, nthreadsDecomp int) (float64, error) {
	return float64(len(compressed)) / 1e9, nil
}

func newTestTuner(t *testing.T, cfg Config) (*Tuner, *fakeEngine) {
	t.Helper()
	os := &fakeEngine{}
	tuner, err := Init(cfg, os, InitParams{TypeSize: 8, NThreadsComp: 2, NThreadsDecomp: 2})
	require.NoError(t, err)
	return tuner, os
}

func runToStop(t *testing.T, tuner *Tuner, engine *fakeEngine, chunkSize int) {
	t.Helper()
	const maxSteps = 20000
	for i := 0; i < maxSteps && tuner.State() != StateStop; i++ {
		tuner.BeginChunk(chunkSize, 8)
		cparams := tuner.NextCParams()
		compressed, instr, err := engine.CompressInstrumented(make([]byte, chunkSize), cparams)
		require.NoError(t, err)
		ctime := float64(chunkSize) / instr.CSpeed
		require.NoError(t, tuner.Update(ctime, len(compressed), compressed, chunkSize))
	}
	require.Equal(t, StateStop, tuner.State(), "tuner did not reach STOP within the step budget")
}

func TestTunerConvergesToStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PerfMode = PerfComp
	tuner, engine := newTestTuner(t, cfg)
	runToStop(t, tuner, engine, 4096)
	assert.Greater(t, tuner.StepsCount(), 0)
}

func TestTunerNeverDecreasesBestScoreOnceStopped(t *testing.T) {
	cfg := DefaultConfig()
	tuner, engine := newTestTuner(t, cfg)
	runToStop(t, tuner, engine, 4096)

	bestBefore := tuner.Best()
	cp := tuner.NextCParams()
	assert.True(t, cp.Equal(bestBefore), "NextCParams after STOP must return the champion unchanged")

	err := tuner.Update(1, 1, nil, 1)
	assert.NoError(t, err)
	assert.True(t, tuner.Best().Equal(bestBefore), "Update after STOP must not mutate the champion")
}

func TestTunerThreadsStayWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	tuner, engine := newTestTuner(t, cfg)
	for i := 0; i < 500 && tuner.State() != StateStop; i++ {
		tuner.BeginChunk(4096, 8)
		cparams := tuner.NextCParams()
		require.GreaterOrEqual(t, cparams.NThreadsComp, MinThreads)
		require.LessOrEqual(t, cparams.NThreadsComp, tuner.maxThreads)
		require.GreaterOrEqual(t, cparams.NThreadsDecomp, MinThreads)
		require.LessOrEqual(t, cparams.NThreadsDecomp, tuner.maxThreads)
		compressed, instr, err := engine.CompressInstrumented(make([]byte, 4096), cparams)
		require.NoError(t, err)
		ctime := 4096.0 / instr.CSpeed
		require.NoError(t, tuner.Update(ctime, len(compressed), compressed, 4096))
	}
}

func TestTunerCParamsHintRequiresHint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CParamsHint = true
	_, err := Init(cfg, &fakeEngine{}, InitParams{TypeSize: 8})
	assert.Error(t, err)
}

func TestTunerWithHintSeedsBestFromHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CParamsHint = true
	cfg.Behaviour = Behaviour{NHardsBeforeStop: 1, RepeatMode: RepeatStop}
	hint := CParams{CompCode: CodecZstd, Filter: FilterBitShuffle, CLevel: 5, NThreadsComp: 1, NThreadsDecomp: 1}

	tuner, err := Init(cfg, &fakeEngine{}, InitParams{TypeSize: 8, HintCParams: &hint})
	require.NoError(t, err)
	assert.Equal(t, hint.CompCode, tuner.best.CompCode)
	assert.Equal(t, hint.Filter, tuner.best.Filter)
}

func TestTunerLastWinnerTracksImprovements(t *testing.T) {
	cfg := DefaultConfig()
	tuner, engine := newTestTuner(t, cfg)
	_, ok := tuner.LastWinner()
	assert.False(t, ok, "no winner before any Update")

	runToStop(t, tuner, engine, 4096)
	_, ok = tuner.LastWinner()
	assert.True(t, ok, "at least one candidate should have improved over the seed default")
}

func TestTunerRejectsNegativeMeasurement(t *testing.T) {
	cfg := DefaultConfig()
	tuner, _ := newTestTuner(t, cfg)
	tuner.BeginChunk(4096, 8)
	tuner.NextCParams()
	err := tuner.Update(-1, 10, nil, 4096)
	assert.ErrorIs(t, err, ErrInvalidChunk)
}

func TestTunerBehaviourRepeatSoftStaysSoftAfterFirstHard(t *testing.T) {
	// NHardsBeforeStop=2 becomes 3 after Init's non-hint increment, so the
	// first full hard/soft cycle (3 hards) completes well within budget,
	// and every readapt after that must stay soft under RepeatSoft.
	cfg := DefaultConfig()
	cfg.Behaviour = Behaviour{NHardsBeforeStop: 2, NSoftsBeforeHard: 1, RepeatMode: RepeatSoft}
	tuner, engine := newTestTuner(t, cfg)

	for i := 0; i < 8000; i++ {
		tuner.BeginChunk(4096, 8)
		cparams := tuner.NextCParams()
		compressed, instr, err := engine.CompressInstrumented(make([]byte, 4096), cparams)
		require.NoError(t, err)
		ctime := 4096.0 / instr.CSpeed
		require.NoError(t, tuner.Update(ctime, len(compressed), compressed, 4096))
	}

	assert.Equal(t, 3, tuner.nhards, "REPEAT_SOFT must never trigger another hard readaptation once the initial hard cycle has completed and repeating has begun")
	assert.True(t, tuner.isRepeating, "isRepeating must latch true and stay true once a repeat cycle has begun")
	assert.NotEqual(t, StateStop, tuner.State(), "REPEAT_SOFT with softs configured should keep soft-readapting, not stop")
}

func TestTunerBehaviourRepeatAllNeverStops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Behaviour = Behaviour{NHardsBeforeStop: 2, NSoftsBeforeHard: 1, RepeatMode: RepeatAll}
	tuner, engine := newTestTuner(t, cfg)

	for i := 0; i < 2000; i++ {
		tuner.BeginChunk(4096, 8)
		cparams := tuner.NextCParams()
		compressed, instr, err := engine.CompressInstrumented(make([]byte, 4096), cparams)
		require.NoError(t, err)
		ctime := 4096.0 / instr.CSpeed
		require.NoError(t, tuner.Update(ctime, len(compressed), compressed, 4096))
	}
	assert.NotEqual(t, StateStop, tuner.State(), fmt.Sprintf("REPEAT_ALL with softs configured should keep readapting, not stop, after %d steps", tuner.StepsCount()))
}
