// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

// Score computes the scalar score for a measurement under perfMode
// (§4.2 "Scalar score"). Lower is better. bandwidth is in KB/s; cbytes
// is the compressed size in bytes.
func Score(perfMode PerfMode, ctime float64, cbytes int, dtime float64, bandwidth uint32) float64 {
	kB := float64(cbytes) / 1024.0
	transfer := kB / float64(bandwidth)
	switch perfMode {
	case PerfComp:
		return ctime + transfer
	case PerfDecomp:
		return transfer + dtime
	case PerfBalanced:
		return ctime + transfer + dtime
	default:
		// AUTO must already have been resolved by the time Score is
		// called; this is an internal-state violation (§7).
		panic("btune: Score called with unresolved perf mode")
	}
}

// Improved decides whether a candidate with the given score/cratio
// coefficients beats the current best, under the tradeoff band (§4.2
// "Improvement decision"). score_coef = best.Score/new.Score,
// cratio_coef = new.CRatio/best.CRatio; both are expected to be finite
// and > 0.
func Improved(band TradeoffBand, scoreCoef, cratioCoef float64) bool {
	switch band {
	case TradeoffLow:
		return (cratioCoef > 1 && scoreCoef > 1) ||
			(cratioCoef > 0.5 && scoreCoef > 2) ||
			(cratioCoef > 0.67 && scoreCoef > 1.3) ||
			(cratioCoef > 2 && scoreCoef > 0.7)
	case TradeoffMid:
		return (cratioCoef > 1 && scoreCoef > 1) ||
			(cratioCoef > 1.1 && scoreCoef > 0.8) ||
			(cratioCoef > 1.3 && scoreCoef > 0.5)
	case TradeoffHigh:
		return cratioCoef > 1
	default:
		panic("btune: Improved called with unknown tradeoff band")
	}
}

// MaxOverhead is the fixed per-chunk framing cost a host compressor
// adds regardless of payload (header + trailer). The exact value is
// not load-bearing for the tuning logic (it only gates the
// special-value guard below), so a representative constant is used.
const MaxOverhead = 32

// IsSpecialValue reports whether cbytes is small enough that the chunk
// compressed to no more than the fixed per-chunk overhead plus one
// element -- a degenerate observation that can never supply a
// meaningful comparison.
func IsSpecialValue(cbytes int, typeSize int) bool {
	return cbytes <= MaxOverhead+typeSize
}
