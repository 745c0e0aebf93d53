// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import (
	"bytes"
	"encoding/binary"
)

// Entropy Probe: a dry-run LZ scanner that estimates a buffer's
// compressibility without emitting encoded bytes. The scan follows the
// same hash-chase-and-extend shape as the LZO1X-999 hash-chain matcher
// in internal/lzcodec (compress_1x_999.go), but reads only
// through bounds-checked slice windows rather than raw pointers.
const (
	probeMaxCopy        = 32
	probeMaxDistance    = 8191
	probeMaxFarDistance = 65535 + probeMaxDistance - 1
	probeHashLog        = 14
	probeHashLen        = 1 << probeHashLog
)

func probeHash(seq uint32) uint32 {
	return (seq * 2654435761) >> (32 - probeHashLog)
}

// equalWindow8 reports whether the 8-byte windows at a and b are equal,
// bounds-checked against buf.
func equalWindow8(buf []byte, a, b int) bool {
	if a < 0 || b < 0 || a+8 > len(buf) || b+8 > len(buf) {
		return false
	}
	return bytes.Equal(buf[a:a+8], buf[b:b+8])
}

func allEqualByte8(buf []byte, at int, x byte) bool {
	if at < 0 || at+8 > len(buf) {
		return false
	}
	for i := 0; i < 8; i++ {
		if buf[at+i] != x {
			return false
		}
	}
	return true
}

// getMatch extends a real match: ip and ref advance together while
// their bytes agree, up to ipBound.
func getMatch(buf []byte, ip, ipBound, ref int) int {
	for ip < ipBound-8 {
		if !equalWindow8(buf, ref, ip) {
			for ip < ipBound && ref < len(buf) && buf[ref] == buf[ip] {
				ip++
				ref++
			}
			return ip
		}
		ip += 8
		ref += 8
	}
	for ip < ipBound && ref < len(buf) && buf[ref] == buf[ip] {
		ip++
		ref++
	}
	return ip
}

// getRun extends a run: ref's bytes are compared against the single
// byte preceding ip (a broadcast value), since distance==1 implies the
// match source is itself a run of that byte.
func getRun(buf []byte, ip, ipBound, ref int) int {
	x := buf[ip-1]
	for ip < ipBound-8 {
		if !allEqualByte8(buf, ref, x) {
			for ip < ipBound && ref < len(buf) && buf[ref] == x {
				ip++
				ref++
			}
			return ip
		}
		ip += 8
		ref += 8
	}
	for ip < ipBound && ref < len(buf) && buf[ref] == x {
		ip++
		ref++
	}
	return ip
}

func getRunOrMatch(buf []byte, ip, ipBound, ref int, run bool) int {
	if run {
		return getRun(buf, ip, ipBound, ref)
	}
	return getMatch(buf, ip, ipBound, ref)
}

func readU32(buf []byte, i int) uint32 {
	if i < 0 || i+4 > len(buf) {
		var tmp [4]byte
		copy(tmp[:], buf[max(i, 0):])
		return binary.LittleEndian.Uint32(tmp[:])
	}
	return binary.LittleEndian.Uint32(buf[i : i+4])
}

// GetCRatio estimates input_len/estimated_cbytes for buf via a
// single-pass LZ-style scan (§4.1 "Algorithm", "Bound"). minlen and
// ipshift are decent defaults of 3 and 3; callers may also try (4,4),
// (3,4) or (4,3). Returns 0 for an empty buffer (no encodable literal
// stream).
func GetCRatio(buf []byte, minlen, ipshift int) float64 {
	if len(buf) == 0 {
		return 0
	}

	var htab [probeHashLen]uint32
	limit := len(buf)
	if limit > probeHashLen {
		limit = probeHashLen
	}
	ipBound := limit - 1
	ipLimit := limit - 12

	oc := 5
	copyRun := 4

	ip := 0
	for ip < ipLimit {
		anchor := ip

		seq := readU32(buf, ip)
		hval := probeHash(seq)
		ref := int(htab[hval])
		distance := anchor - ref
		htab[hval] = uint32(anchor)

		if distance == 0 || distance >= probeMaxFarDistance {
			oc++
			anchor++
			ip = anchor
			copyRun++
			if copyRun == probeMaxCopy {
				copyRun = 0
				oc++
			}
			continue
		}

		if readU32(buf, ref) != readU32(buf, ip) {
			oc++
			anchor++
			ip = anchor
			copyRun++
			if copyRun == probeMaxCopy {
				copyRun = 0
				oc++
			}
			continue
		}
		ref += 4

		ip = anchor + 4
		distance--

		ip = getRunOrMatch(buf, ip, ipBound, ref, distance == 0)
		ip -= ipshift
		length := ip - anchor
		if length < minlen {
			oc++
			anchor++
			ip = anchor
			copyRun++
			if copyRun == probeMaxCopy {
				copyRun = 0
				oc++
			}
			continue
		}

		if copyRun == 0 {
			oc--
		}
		copyRun = 0

		if distance < probeMaxDistance {
			if length >= 7 {
				oc += (length-7)/255 + 1
			}
			oc += 2
		} else {
			if length >= 7 {
				oc += (length-7)/255 + 1
			}
			oc += 4
		}

		seq = readU32(buf, ip)
		hval = probeHash(seq)
		htab[hval] = uint32(ip)
		ip += 2
		oc++
	}

	if oc <= 0 {
		oc = 1
	}
	return float64(ip) / float64(oc)
}

// EntropyProbeEncode is the Entropy Probe's encoder-only codec surface
// (§4.1 "Wrapper", §6 codec surface: id 244, name entropy_probe, no
// decoder). It never writes to output; it returns an estimated cbytes.
func EntropyProbeEncode(input []byte) int {
	cratio := GetCRatio(input, 3, 3)
	if cratio <= 0 {
		return len(input)
	}
	cbytes := int(float64(len(input)) / cratio)
	if cbytes > len(input) {
		cbytes = len(input)
	}
	return cbytes
}
