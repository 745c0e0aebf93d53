// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

// HostEngine is the external block-compressor collaborator (§1, §5,
// §6): the core only ever calls through this narrow interface, never
// owning the actual encode/decode work. A concrete implementation
// lives in package hostsim; the tuner itself is tested against a
// minimal fake.
type HostEngine interface {
	// Decompress decompresses compressed (produced from a buffer of
	// srcSize bytes under cparams) using nthreadsDecomp worker threads
	// and returns the elapsed wall-clock time in seconds. Called from
	// Tuner.Update when dtime is needed (§4.5 step 2).
	Decompress(cparams CParams, compressed []byte, srcSize int, nthreadsDecomp int) (dtime float64, err error)

	// CompressInstrumented compresses src under cparams and reports
	// both the raw encoder throughput and the pre-filter throughput
	// separately, the way a real instrumented host build does. It
	// backs ArangeSpeed (§4.1 "Arange-speed helper") and the ML
	// inference hook's feature extraction; the main tuning loop does
	// not call it (ctime/cbytes for real chunks come from the host via
	// Update, not from this method).
	CompressInstrumented(src []byte, cparams CParams) (compressed []byte, instr Instrumentation, err error)
}

// Instrumentation reports the two throughput components an
// instrumentation-enabled compression pass exposes (bytes/sec).
type Instrumentation struct {
	CSpeed      float64
	FilterSpeed float64
}
