// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

// Codec identifies a compression codec a candidate can select. The set
// matches the Blosc2 codec registry; hostsim maps each of these onto a
// real byte codec.
type Codec int

const (
	CodecBloscLZ Codec = iota
	CodecLZ4
	CodecLZ4HC
	CodecZlib
	CodecZstd
	// CodecEntropyProbe is the pseudo-codec id 244 registered by the
	// Entropy Probe (§4.1, §6). It has an encoder but no decoder and is
	// never selected by the Candidate Generator.
	CodecEntropyProbe Codec = 244
)

func (c Codec) String() string {
	switch c {
	case CodecBloscLZ:
		return "blosclz"
	case CodecLZ4:
		return "lz4"
	case CodecLZ4HC:
		return "lz4hc"
	case CodecZlib:
		return "zlib"
	case CodecZstd:
		return "zstd"
	case CodecEntropyProbe:
		return "entropy_probe"
	default:
		return "unknown"
	}
}

// Filter identifies a pre-compression byte-rearrangement filter.
type Filter int

const (
	FilterNone Filter = iota
	FilterShuffle
	FilterBitShuffle
	FilterByteDelta
)

func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "nofilter"
	case FilterShuffle:
		return "shuffle"
	case FilterBitShuffle:
		return "bitshuffle"
	case FilterByteDelta:
		return "bytedelta"
	default:
		return "unknown"
	}
}

// SplitMode controls whether a block is split into typesize-sized
// streams before filtering/compression. SplitAuto (the zero value) is
// only meaningful as a Config/Tuner-wide setting: the Candidate
// Generator resolves it per-candidate into SplitAlways/SplitNever
// (§4.3 CODEC_FILTER).
type SplitMode int

const (
	SplitAuto SplitMode = iota
	SplitAlways
	SplitNever
)

func (s SplitMode) String() string {
	switch s {
	case SplitAuto:
		return "auto"
	case SplitAlways:
		return "always"
	case SplitNever:
		return "never"
	default:
		return "unknown"
	}
}

// PerfMode selects which measured quantities enter the Score Model.
// PerfAuto resolves to PerfComp at Init unless BTUNE_PERF_MODE overrides it.
type PerfMode int

const (
	PerfAuto PerfMode = iota
	PerfComp
	PerfDecomp
	PerfBalanced
)

func (p PerfMode) String() string {
	switch p {
	case PerfAuto:
		return "AUTO"
	case PerfComp:
		return "COMP"
	case PerfDecomp:
		return "DECOMP"
	case PerfBalanced:
		return "BALANCED"
	default:
		return "UNKNOWN"
	}
}

// RepeatMode controls what happens once the behaviour schedule's hards
// are exhausted (§3, §4.4 WAITING transitions).
type RepeatMode int

const (
	RepeatAll RepeatMode = iota
	RepeatSoft
	RepeatStop
)

func (r RepeatMode) String() string {
	switch r {
	case RepeatAll:
		return "REPEAT_ALL"
	case RepeatSoft:
		return "REPEAT_SOFT"
	case RepeatStop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// State is the tuning state machine's phase (§3, §4.4).
type State int

const (
	StateCodecFilter State = iota
	StateShuffleSize
	StateThreads
	StateClevel
	StateMemcpy
	StateWaiting
	StateStop
)

func (s State) String() string {
	switch s {
	case StateCodecFilter:
		return "CODEC_FILTER"
	case StateShuffleSize:
		return "SHUFFLE_SIZE"
	case StateThreads:
		return "THREADS"
	case StateClevel:
		return "CLEVEL"
	case StateMemcpy:
		return "MEMCPY"
	case StateWaiting:
		return "WAITING"
	case StateStop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// ReadaptFrom records which readaptation kind last led into WAITING
// (§3, §4.4 "Soft vs Hard readapt").
type ReadaptFrom int

const (
	ReadaptHard ReadaptFrom = iota
	ReadaptSoft
	ReadaptWait
)

func (r ReadaptFrom) String() string {
	switch r {
	case ReadaptHard:
		return "HARD"
	case ReadaptSoft:
		return "SOFT"
	case ReadaptWait:
		return "WAIT"
	default:
		return "UNKNOWN"
	}
}
