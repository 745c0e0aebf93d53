// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

// Package mlhint provides a concrete, deterministic stand-in for the
// ML inference hook a real deployment would plug into
// (btune.Predictor). Training or shipping an actual model is out of
// scope; what needs to be real is the seam -- the Candidate Generator
// narrowing its search when a prediction arrives and falling back to
// its built-in lists when it doesn't (btune's runInference).
package mlhint

import "github.com/Blosc/blosc2-btune"

// Heuristic predicts a codec/filter/clevel combination from the
// Entropy Probe's compressibility estimate (ChunkFeatures.CRatioEstimate)
// alone, rather than from a trained model; ZerosSpeed and TypeSize are
// not consulted. Estimates of 4 or more get ZSTD at clevel 7, estimates
// of 1.5 or more get LZ4HC at clevel 6, and everything else gets LZ4
// with bitshuffle at clevel 1.
type Heuristic struct {
	// MinConfidenceChunkSize is the smallest chunk size the heuristic is
	// willing to predict for; smaller chunks return (Prediction{}, false)
	// since the probe's estimate is too noisy to trust.
	MinConfidenceChunkSize int
}

// NewHeuristic returns a Heuristic with reasonable defaults.
func NewHeuristic() *Heuristic {
	return &Heuristic{MinConfidenceChunkSize: 4096}
}

var _ btune.Predictor = (*Heuristic)(nil)

// Predict implements btune.Predictor.
func (h *Heuristic) Predict(f btune.ChunkFeatures) (btune.Prediction, bool) {
	if f.ChunkSize < h.MinConfidenceChunkSize || f.CRatioEstimate <= 0 {
		return btune.Prediction{}, false
	}

	switch {
	case f.CRatioEstimate >= 4:
		return btune.Prediction{
			CompCode:  btune.CodecZstd,
			Filter:    btune.FilterShuffle,
			CLevel:    7,
			SplitMode: btune.SplitAlways,
		}, true

	case f.CRatioEstimate >= 1.5:
		return btune.Prediction{
			CompCode:  btune.CodecLZ4HC,
			Filter:    btune.FilterShuffle,
			CLevel:    6,
			SplitMode: btune.SplitAlways,
		}, true

	default:
		// Near-incompressible: don't pay for a strong codec's higher
		// levels, and prefer bitshuffle since byte shuffle buys little
		// when there's no cross-element redundancy to expose.
		return btune.Prediction{
			CompCode:  btune.CodecLZ4,
			Filter:    btune.FilterBitShuffle,
			CLevel:    1,
			SplitMode: btune.SplitAlways,
		}, true
	}
}
