// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import "fmt"

// Update reports a chunk's measured compression time and size
// (btune_update, §4.5 "Update"). compressed is the chunk's compressed
// bytes; it may be nil when the host has no compressed buffer available
// to hand back (§7 "Host measurement unavailable"), in which case dtime
// is treated as zero and never measured. srcSize is the chunk's
// uncompressed size, used for the compression ratio.
//
// Update drives the state machine forward: once a full round of
// repeated observations for the current candidate is in (here, a single
// observation -- the tuner does not currently average across repeats),
// it decides whether the candidate improved on the champion, updates
// Best accordingly, and calls into the phase-transition logic in
// machine.go.
func (t *Tuner) Update(ctime float64, cbytes int, compressed []byte, srcSize int) error {
	if t.state == StateStop {
		return nil
	}
	if ctime < 0 || cbytes < 0 || srcSize <= 0 {
		return fmt.Errorf("%w: ctime=%v cbytes=%v srcSize=%v", ErrInvalidChunk, ctime, cbytes, srcSize)
	}

	t.stepsCount++
	cparams := &t.aux

	b := t.config.Behaviour
	skipBecauseWaiting := t.state == StateWaiting &&
		(b.NWaitsBeforeReadapt == 0 || t.nwaitings%int(b.NWaitsBeforeReadapt) != 0)
	needDecomp := !skipBecauseWaiting &&
		(t.config.PerfMode == PerfDecomp || t.config.PerfMode == PerfBalanced) &&
		compressed != nil

	var dtime float64
	if needDecomp {
		var err error
		dtime, err = t.engine.Decompress(*cparams, compressed, srcSize, cparams.NThreadsDecomp)
		if err != nil {
			return fmt.Errorf("btune: Update: decompressing measurement chunk: %w", err)
		}
	}

	score := Score(t.config.PerfMode, ctime, cbytes, dtime, t.config.Bandwidth)
	cratio := float64(srcSize) / float64(cbytes)

	cparams.Score = score
	cparams.CRatio = cratio
	cparams.CTime = ctime
	cparams.DTime = dtime

	t.currentScores[t.repIndex] = score
	t.currentCratios[t.repIndex] = cratio
	t.repIndex++

	if t.repIndex < len(t.currentScores) {
		return nil
	}

	meanScore := mean(t.currentScores[:])
	meanCratio := mean(t.currentCratios[:])
	scoreCoef := t.best.Score / meanScore
	cratioCoef := meanCratio / t.best.CRatio

	var improved bool
	if t.state == StateThreads {
		if t.threadsForComp {
			improved = ctime < t.best.CTime
		} else {
			improved = dtime < t.best.DTime
		}
	} else {
		improved = Improved(t.config.Band(), scoreCoef, cratioCoef)
	}

	winner := byte('-')
	if IsSpecialValue(cbytes, t.typeSize) {
		improved = false
		winner = 'S'
	} else if improved {
		winner = 'W'
	}

	if !t.isRepeating {
		t.emitTrace(*cparams, meanScore, meanCratio, winner)
	}

	if improved {
		t.best = *cparams
		t.lastWinner = *cparams
		t.hasLastWinner = true
	}
	if t.metrics != nil {
		t.metrics.observeUpdate(t, *cparams, improved)
	}

	t.repIndex = 0
	updateAux(t, improved)
	return nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
