// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

// NextCParams proposes the next candidate cparams (btune_next_cparams,
// §4.3 "Candidate Generator"). It first gives the ML inference hook a
// chance to narrow or replace the search (§4.3 "ML seeding"), then
// mutates aux according to the current State, and finally clamps the
// result (§4.3 "Post-processing").
func (t *Tuner) NextCParams() CParams {
	t.runInference()

	if t.state == StateStop {
		return t.best
	}

	t.aux = t.best

	switch t.state {
	case StateCodecFilter:
		t.nextCodecFilter()
	case StateShuffleSize:
		t.auxIndex++
		t.nextShuffleSize()
	case StateThreads:
		t.auxIndex++
		t.nextThreads()
	case StateClevel:
		t.auxIndex++
		t.nextClevel()
	case StateMemcpy:
		t.auxIndex++
		t.aux.CLevel = 0
	case StateWaiting:
		t.nwaitings++
	}

	t.postProcess(&t.aux)
	return t.aux
}

func (t *Tuner) nextCodecFilter() {
	nFilterSplits := len(t.filters) * 2
	t.aux.CompCode = t.codecs[t.auxIndex/nFilterSplits]
	t.aux.Filter = t.filters[(t.auxIndex%nFilterSplits)/2]
	if t.splitMode == SplitAuto {
		t.aux.SplitMode = SplitMode(t.auxIndex%2 + 1)
	} else {
		t.aux.SplitMode = t.splitMode
	}

	comp := t.config.PerfMode == PerfComp || t.config.PerfMode == PerfBalanced
	highCompressor := t.aux.CompCode == CodecZstd || t.aux.CompCode == CodecZlib
	if comp && highCompressor && t.nhards == 0 {
		t.aux.CLevel = 3
	}

	if t.inferenceEnded {
		t.auxIndex++
	}
}

func (t *Tuner) nextShuffleSize() {
	if t.aux.IncreasingShuffle {
		if t.aux.ShuffleSize < MaxShuffle {
			t.aux.ShuffleSize <<= 1
		}
		return
	}
	min := minShuffle
	if t.aux.Filter != FilterShuffle {
		min = minBitShuffle
	}
	if t.aux.ShuffleSize > min {
		t.aux.ShuffleSize >>= 1
	}
}

func (t *Tuner) nextThreads() {
	nthreads := &t.aux.NThreadsComp
	if !t.threadsForComp {
		nthreads = &t.aux.NThreadsDecomp
	}
	if t.aux.IncreasingNThreads {
		if *nthreads < t.maxThreads {
			*nthreads++
		}
		return
	}
	if *nthreads > MinThreads {
		*nthreads--
	}
}

func (t *Tuner) nextClevel() {
	if !hasEndedClevel(t) {
		if t.aux.IncreasingCLevel {
			t.clevelIndex += t.stepSize
		} else {
			t.clevelIndex -= t.stepSize
		}
		if t.clevelIndex < 0 {
			t.clevelIndex = 0
		}
		if t.clevelIndex >= t.nclevels {
			t.clevelIndex = t.nclevels - 1
		}
	}
	t.aux.CLevel = t.clevels[t.clevelIndex]
	if t.aux.CLevel == 9 && t.aux.CompCode == CodecZstd {
		t.aux.CLevel = 8
	}
}

// postProcess clamps a proposed candidate against the trade-off band
// and the current chunk's source size (set_btune_cparams's clamps,
// plus the blocksize clamp applied right after next_cparams).
func (t *Tuner) postProcess(cparams *CParams) {
	band := t.config.Band()
	highCompressor := cparams.CompCode == CodecZstd || cparams.CompCode == CodecZlib
	if band == TradeoffMid && highCompressor && cparams.CLevel >= 3 {
		cparams.CLevel = 3
	}
	if band == TradeoffHigh && cparams.CLevel >= 6 {
		cparams.CLevel = 6
	}
	if t.sourceSize > 0 && cparams.BlockSize > t.sourceSize {
		cparams.BlockSize = t.sourceSize
	}
}

// runInference gives the ML inference hook a chance to seed or replace
// the search lists for the chunks ahead (§4.3 "ML seeding"). Once the
// hook's seeding window is spent, the majority verdict across
// everything it predicted (mostPredicted, computed from the stored
// history without calling the hook again) is applied once, and the
// inference is marked ended. With no predictor configured the
// inference is marked ended straight away.
func (t *Tuner) runInference() {
	if t.predictor == nil || t.predictor == NoPredictor {
		t.inferenceEnded = true
		return
	}

	var predicted Prediction
	havePrediction := false

	switch {
	case t.inferenceCount > 0:
		t.inferenceCount--
		if t.zerosSpeed < 0 {
			t.primeZerosSpeed()
		}
		if p, ok := t.predictor.Predict(t.currentFeatures()); ok {
			predicted = p
			havePrediction = true
		}
	case !t.inferenceEnded:
		if p, ok := t.mostPredicted(); ok {
			predicted = p
			havePrediction = true
		}
		t.inferenceEnded = true
	}

	if !havePrediction {
		return
	}

	t.codecs = []Codec{predicted.CompCode}
	t.filters = []Filter{predicted.Filter}
	if t.config.PerfMode == PerfDecomp {
		t.setClevels(predicted.CLevel, predicted.CLevel, predicted.CLevel)
	} else {
		min := predicted.CLevel - 1
		if predicted.CLevel <= 1 {
			min = predicted.CLevel
		}
		max := predicted.CLevel + 1
		if predicted.CLevel >= 9 {
			max = predicted.CLevel
		}
		t.setClevels(min, max, predicted.CLevel)
	}
	t.predictionHistory = append(t.predictionHistory, predicted)
}

func (t *Tuner) primeZerosSpeed() {
	if t.engine == nil || t.sourceSize <= 0 {
		t.zerosSpeed = 0
		return
	}
	v, err := ArangeSpeed(t.engine, t.best, t.sourceSize)
	if err != nil {
		t.zerosSpeed = 0
		return
	}
	t.zerosSpeed = v
}

func (t *Tuner) currentFeatures() ChunkFeatures {
	return ChunkFeatures{
		ZerosSpeed:     t.zerosSpeed,
		CRatioEstimate: t.lastCRatioEstimate,
		TypeSize:       t.typeSize,
		ChunkSize:      t.sourceSize,
	}
}

// mostPredicted returns the majority verdict across everything the
// predictor has returned so far, breaking ties in favor of whichever
// candidate was seen first.
func (t *Tuner) mostPredicted() (Prediction, bool) {
	if len(t.predictionHistory) == 0 {
		return Prediction{}, false
	}
	counts := make(map[Prediction]int, len(t.predictionHistory))
	for _, p := range t.predictionHistory {
		counts[p]++
	}
	best := t.predictionHistory[0]
	bestCount := 0
	for _, p := range t.predictionHistory {
		if c := counts[p]; c > bestCount {
			bestCount = c
			best = p
		}
	}
	return best, true
}
