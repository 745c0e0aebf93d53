// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

// emitTrace logs one tuning-decision row when BTUNE_TRACE is set (§6
// "Trace output"). It is a no-op otherwise, so the formatting cost is
// never paid on a quiet run.
func (t *Tuner) emitTrace(cparams CParams, score, cratio float64, winner byte) {
	if !TraceEnabled() {
		return
	}
	t.log.WithFields(map[string]interface{}{
		"step":       t.stepsCount,
		"state":      t.state.String(),
		"readapt":    t.readaptFrom.String(),
		"codec":      cparams.CompCode.String(),
		"filter":     cparams.Filter.String(),
		"split":      cparams.SplitMode.String(),
		"clevel":     cparams.CLevel,
		"nthreads_c": cparams.NThreadsComp,
		"nthreads_d": cparams.NThreadsDecomp,
		"score":      score,
		"cratio":     cratio,
		"ctime":      cparams.CTime,
		"dtime":      cparams.DTime,
		"winner":     string(winner),
	}).Info("btune: candidate evaluated")
}
