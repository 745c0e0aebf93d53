// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestPropertyClevelAndThreadsStayInBounds exercises the state machine
// with random measurements and checks the invariants the data model
// promises: clevel in [0,9] and thread counts in [MinThreads,
// maxThreads], for every candidate the generator ever proposes.
func TestPropertyClevelAndThreadsStayInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := DefaultConfig()
		cfg.Tradeoff = rapid.Float64Range(0, 1).Draw(rt, "tradeoff")
		cfg.PerfMode = rapid.SampledFrom([]PerfMode{PerfComp, PerfDecomp, PerfBalanced}).Draw(rt, "perfMode")

		engine := &fakeEngine{}
		tuner, err := Init(cfg, engine, InitParams{
			TypeSize:       8,
			NThreadsComp:   rapid.IntRange(1, 8).Draw(rt, "nthreadsComp"),
			NThreadsDecomp: rapid.IntRange(1, 8).Draw(rt, "nthreadsDecomp"),
		})
		require.NoError(rt, err)

		steps := rapid.IntRange(1, 200).Draw(rt, "steps")
		for i := 0; i < steps && tuner.State() != StateStop; i++ {
			tuner.BeginChunk(4096, 8)
			cparams := tuner.NextCParams()

			if cparams.CLevel < 0 || cparams.CLevel > 9 {
				rt.Fatalf("clevel out of bounds: %d", cparams.CLevel)
			}
			if cparams.NThreadsComp < MinThreads || cparams.NThreadsComp > tuner.maxThreads {
				rt.Fatalf("nthreads_comp out of bounds: %d (max %d)", cparams.NThreadsComp, tuner.maxThreads)
			}
			if cparams.NThreadsDecomp < MinThreads || cparams.NThreadsDecomp > tuner.maxThreads {
				rt.Fatalf("nthreads_decomp out of bounds: %d (max %d)", cparams.NThreadsDecomp, tuner.maxThreads)
			}

			compressed, instr, cerr := engine.CompressInstrumented(make([]byte, 4096), cparams)
			require.NoError(rt, cerr)
			ctime := 4096.0 / instr.CSpeed
			require.NoError(rt, tuner.Update(ctime, len(compressed), compressed, 4096))
		}
	})
}

// TestPropertyImprovedIsMonotoneInBothAxes checks the improvement
// decision's obvious monotonicity property: strictly improving both
// score and cratio coefficients can never turn a positive decision
// negative, for every band.
func TestPropertyImprovedIsMonotoneInBothAxes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		band := rapid.SampledFrom([]TradeoffBand{TradeoffLow, TradeoffMid, TradeoffHigh}).Draw(rt, "band")
		scoreCoef := rapid.Float64Range(0.01, 5).Draw(rt, "scoreCoef")
		cratioCoef := rapid.Float64Range(0.01, 5).Draw(rt, "cratioCoef")

		if !Improved(band, scoreCoef, cratioCoef) {
			return
		}
		require.True(rt, Improved(band, scoreCoef*1.5, cratioCoef*1.5),
			"scaling both coefficients up must not turn an improvement into a non-improvement")
	})
}
