// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFormulas(t *testing.T) {
	const bandwidth = 1 // 1 KB/s -> transfer = kB/1

	comp := Score(PerfComp, 2.0, 2048, 99.0, bandwidth)
	assert.InDelta(t, 2.0+2.0, comp, 1e-9)

	decomp := Score(PerfDecomp, 99.0, 2048, 3.0, bandwidth)
	assert.InDelta(t, 2.0+3.0, decomp, 1e-9)

	balanced := Score(PerfBalanced, 2.0, 2048, 3.0, bandwidth)
	assert.InDelta(t, 2.0+2.0+3.0, balanced, 1e-9)
}

func TestScorePanicsOnAuto(t *testing.T) {
	assert.Panics(t, func() {
		Score(PerfAuto, 1, 1, 1, 1024)
	})
}

func TestImprovedLowBand(t *testing.T) {
	assert.True(t, Improved(TradeoffLow, 1.1, 1.1))
	assert.True(t, Improved(TradeoffLow, 2.1, 0.6))
	assert.True(t, Improved(TradeoffLow, 0.71, 2.1))
	assert.False(t, Improved(TradeoffLow, 1.0, 1.0))
}

func TestImprovedMidBand(t *testing.T) {
	assert.True(t, Improved(TradeoffMid, 1.01, 1.01))
	assert.True(t, Improved(TradeoffMid, 0.9, 1.2))
	assert.False(t, Improved(TradeoffMid, 0.4, 1.05))
}

func TestImprovedHighBand(t *testing.T) {
	assert.True(t, Improved(TradeoffHigh, 0.1, 1.01))
	assert.False(t, Improved(TradeoffHigh, 99, 1.0))
}

func TestIsSpecialValue(t *testing.T) {
	assert.True(t, IsSpecialValue(MaxOverhead+8, 8))
	assert.False(t, IsSpecialValue(MaxOverhead+9, 8))
}
