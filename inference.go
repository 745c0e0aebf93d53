// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

// ChunkFeatures are the inputs handed to a Predictor. ZerosSpeed is a
// cached arange speed measured by ArangeSpeed through the HostEngine;
// it is populated at most once per Tuner, on first use.
// CRatioEstimate is the Entropy Probe's estimate from PrimeChunk.
type ChunkFeatures struct {
	ZerosSpeed     float64
	CRatioEstimate float64
	TypeSize       int
	ChunkSize      int
}

// Prediction is what a Predictor returns on success: a single
// codec/filter/clevel/splitmode combination the Candidate Generator
// narrows its search to (§4.3 "ML seeding").
type Prediction struct {
	CompCode  Codec
	Filter    Filter
	CLevel    int
	SplitMode SplitMode
}

// Predictor is the opaque ML inference hook (§1 "any ML inference
// module", Design Notes "ML-inference hook"): an external collaborator
// the core only ever calls through this interface.
type Predictor interface {
	// Predict returns a prediction and true on success, or false if the
	// model declines to predict for these features.
	Predict(features ChunkFeatures) (Prediction, bool)
}

// noPredictor is the zero-value Predictor used when a Tuner is
// configured without a model: the generator proceeds with its built-in
// search lists for the whole run (§4.3: "When it returns none...").
type noPredictor struct{}

func (noPredictor) Predict(ChunkFeatures) (Prediction, bool) { return Prediction{}, false }

// NoPredictor is the shared no-op Predictor.
var NoPredictor Predictor = noPredictor{}
