// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import "fmt"

// ArangeSpeed builds an in-memory arange chunk (first floor(N/8) 8-byte
// slots hold 0..floor(N/8)-1, zero-padded tail), compresses it through
// engine with instrumentation, and returns 1/(1/cspeed + 1/filter_speed)
// (§4.1 "Arange-speed helper"). The buffer's contents are only ever
// measured, never decoded for meaning.
func ArangeSpeed(engine HostEngine, cparams CParams, chunkSize int) (float64, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("btune: ArangeSpeed: chunkSize must be positive, got %d", chunkSize)
	}
	buf := make([]byte, chunkSize)
	niters := chunkSize / 8
	for i := 0; i < niters; i++ {
		v := uint64(i)
		off := i * 8
		for b := 0; b < 8; b++ {
			buf[off+b] = byte(v >> (8 * b))
		}
	}
	// tail (chunkSize % 8 bytes) is already zero from make([]byte, ...)

	_, instr, err := engine.CompressInstrumented(buf, cparams)
	if err != nil {
		return 0, fmt.Errorf("btune: ArangeSpeed: compressing arange chunk: %w", err)
	}
	if instr.CSpeed <= 0 || instr.FilterSpeed <= 0 {
		return 0, fmt.Errorf("btune: ArangeSpeed: non-positive instrumentation speed (cspeed=%v, filter_speed=%v)",
			instr.CSpeed, instr.FilterSpeed)
	}
	ctime := 1.0 / instr.CSpeed
	ftime := 1.0 / instr.FilterSpeed
	return 1.0 / (ctime + ftime), nil
}
