// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

// Package hostsim is a stand-in for the external block-compressor host
// a real tuner plugs into. It implements btune.HostEngine by actually
// shuffling, filtering and compressing bytes, so a Tuner can be driven
// end-to-end against real throughput numbers instead of a scripted
// fake.
package hostsim

// Shuffle rearranges buf, understood as a sequence of typesize-byte
// elements, so that all elements' byte 0 comes first, then all byte 1,
// and so on -- the classic Blosc byte-shuffle filter. Any trailing
// partial element is left in place at the end, untouched.
func Shuffle(buf []byte, typesize int) []byte {
	if typesize <= 1 || len(buf) < typesize {
		return append([]byte(nil), buf...)
	}
	nelem := len(buf) / typesize
	tail := len(buf) % typesize
	out := make([]byte, len(buf))
	for e := 0; e < nelem; e++ {
		for b := 0; b < typesize; b++ {
			out[b*nelem+e] = buf[e*typesize+b]
		}
	}
	copy(out[nelem*typesize:], buf[nelem*typesize:nelem*typesize+tail])
	return out
}

// Unshuffle reverses Shuffle.
func Unshuffle(buf []byte, typesize int) []byte {
	if typesize <= 1 || len(buf) < typesize {
		return append([]byte(nil), buf...)
	}
	nelem := len(buf) / typesize
	tail := len(buf) % typesize
	out := make([]byte, len(buf))
	for e := 0; e < nelem; e++ {
		for b := 0; b < typesize; b++ {
			out[e*typesize+b] = buf[b*nelem+e]
		}
	}
	copy(out[nelem*typesize:], buf[nelem*typesize:nelem*typesize+tail])
	return out
}

// BitShuffle is Shuffle's finer-grained sibling: it transposes at the
// bit level rather than the byte level, across the whole buffer treated
// as one bitplane-able block. Only whole bytes of input are consumed;
// any trailing bytes that don't fill a full 8-element group are copied
// through unfiltered.
func BitShuffle(buf []byte) []byte {
	n := len(buf)
	groups := n / 8
	out := make([]byte, n)
	for g := 0; g < groups; g++ {
		base := g * 8
		for bit := 0; bit < 8; bit++ {
			var packed byte
			for i := 0; i < 8; i++ {
				if buf[base+i]&(1<<uint(bit)) != 0 {
					packed |= 1 << uint(i)
				}
			}
			out[bit*groups+g] = packed
		}
	}
	copy(out[groups*8:], buf[groups*8:])
	return out
}

// BitUnshuffle reverses BitShuffle.
func BitUnshuffle(buf []byte) []byte {
	n := len(buf)
	groups := n / 8
	out := make([]byte, n)
	for g := 0; g < groups; g++ {
		base := g * 8
		for bit := 0; bit < 8; bit++ {
			packed := buf[bit*groups+g]
			for i := 0; i < 8; i++ {
				if packed&(1<<uint(i)) != 0 {
					out[base+i] |= 1 << uint(bit)
				}
			}
		}
	}
	copy(out[groups*8:], buf[groups*8:])
	return out
}

// ByteDelta replaces each typesize-wide element with its difference
// from the previous element, byte-by-byte (the filter BYTEDELTA always
// pairs with a SHUFFLE slot ahead of it in the pipeline -- see
// btune.FilterPipeline.Build). The first element passes through
// unchanged.
func ByteDelta(buf []byte, typesize int) []byte {
	if typesize <= 0 || len(buf) < 2*typesize {
		return append([]byte(nil), buf...)
	}
	nelem := len(buf) / typesize
	out := append([]byte(nil), buf...)
	for e := nelem - 1; e > 0; e-- {
		for b := 0; b < typesize; b++ {
			i := e*typesize + b
			out[i] = buf[i] - buf[i-typesize]
		}
	}
	return out
}

// ByteUndelta reverses ByteDelta.
func ByteUndelta(buf []byte, typesize int) []byte {
	if typesize <= 0 || len(buf) < 2*typesize {
		return append([]byte(nil), buf...)
	}
	nelem := len(buf) / typesize
	out := append([]byte(nil), buf...)
	for e := 1; e < nelem; e++ {
		for b := 0; b < typesize; b++ {
			i := e*typesize + b
			out[i] = out[i-typesize] + buf[i]
		}
	}
	return out
}
