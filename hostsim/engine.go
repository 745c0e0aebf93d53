// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package hostsim

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/Blosc/blosc2-btune"
	"github.com/Blosc/blosc2-btune/internal/lzcodec"
)

// Engine is a real (if unoptimized) btune.HostEngine: it actually
// shuffles, filters, compresses and decompresses bytes so a Tuner can
// be exercised against genuine throughput numbers rather than scripted
// fakes. The fast byte-oriented codec family (LZ4/LZ4HC/BLOSCLZ) is
// backed by internal/lzcodec's LZO1X implementation; ZSTD and ZLIB are
// backed by klauspost/compress.
type Engine struct{}

// New returns a ready-to-use Engine. It holds no state of its own.
func New() *Engine { return &Engine{} }

var _ btune.HostEngine = (*Engine)(nil)

const minElapsed = 1e-9

// CompressInstrumented implements btune.HostEngine.
func (e *Engine) CompressInstrumented(src []byte, cparams btune.CParams) ([]byte, btune.Instrumentation, error) {
	t0 := time.Now()
	filtered := applyPipeline(src, cparams)
	filterElapsed := time.Since(t0).Seconds()

	t1 := time.Now()
	compressed, err := compressWith(cparams.CompCode, cparams.CLevel, cparams.ShuffleSize, filtered)
	compElapsed := time.Since(t1).Seconds()
	if err != nil {
		return nil, btune.Instrumentation{}, err
	}

	if filterElapsed < minElapsed {
		filterElapsed = minElapsed
	}
	if compElapsed < minElapsed {
		compElapsed = minElapsed
	}
	instr := btune.Instrumentation{
		CSpeed:      float64(len(src)) / compElapsed,
		FilterSpeed: float64(len(src)) / filterElapsed,
	}
	return compressed, instr, nil
}

// Decompress implements btune.HostEngine.
func (e *Engine) Decompress(cparams btune.CParams, compressed []byte, srcSize int, nthreadsDecomp int) (float64, error) {
	t0 := time.Now()
	filtered, err := decompressWith(cparams.CompCode, compressed, srcSize, nthreadsDecomp)
	if err != nil {
		return 0, err
	}
	unapplyPipeline(filtered, cparams)
	elapsed := time.Since(t0).Seconds()
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return elapsed, nil
}

func applyPipeline(src []byte, cparams btune.CParams) []byte {
	pipeline := cparams.Pipeline(cparams.ShuffleSize)
	out := src
	for _, f := range pipeline.Slots {
		switch f {
		case btune.FilterShuffle:
			out = Shuffle(out, cparams.ShuffleSize)
		case btune.FilterBitShuffle:
			out = BitShuffle(out)
		case btune.FilterByteDelta:
			out = ByteDelta(out, cparams.ShuffleSize)
		}
	}
	return out
}

// unapplyPipeline reverses applyPipeline's slot order; its result is
// discarded by callers that only want the wall-clock cost measured.
func unapplyPipeline(filtered []byte, cparams btune.CParams) []byte {
	pipeline := cparams.Pipeline(cparams.ShuffleSize)
	out := filtered
	for i := len(pipeline.Slots) - 1; i >= 0; i-- {
		switch pipeline.Slots[i] {
		case btune.FilterShuffle:
			out = Unshuffle(out, cparams.ShuffleSize)
		case btune.FilterBitShuffle:
			out = BitUnshuffle(out)
		case btune.FilterByteDelta:
			out = ByteUndelta(out, cparams.ShuffleSize)
		}
	}
	return out
}

func compressWith(codec btune.Codec, clevel, typesize int, src []byte) ([]byte, error) {
	switch codec {
	case btune.CodecLZ4, btune.CodecLZ4HC, btune.CodecBloscLZ:
		return lzcodec.LevelCompress(src, clevel, typesize)

	case btune.CodecZlib:
		var buf bytes.Buffer
		level := zlibLevel(clevel)
		w, err := flate.NewWriter(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("hostsim: zlib writer: %w", err)
		}
		if _, err := w.Write(src); err != nil {
			return nil, fmt.Errorf("hostsim: zlib write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("hostsim: zlib close: %w", err)
		}
		return buf.Bytes(), nil

	case btune.CodecZstd:
		level := zstdLevel(clevel)
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
		if err != nil {
			return nil, fmt.Errorf("hostsim: zstd writer: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(src, nil), nil

	default:
		return nil, fmt.Errorf("hostsim: codec %v has no compressor", codec)
	}
}

func decompressWith(codec btune.Codec, compressed []byte, outLen, nthreadsDecomp int) ([]byte, error) {
	switch codec {
	case btune.CodecLZ4, btune.CodecLZ4HC, btune.CodecBloscLZ:
		return lzcodec.LevelDecompress(compressed, outLen)

	case btune.CodecZlib:
		r := flate.NewReader(bytes.NewReader(compressed))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("hostsim: zlib read: %w", err)
		}
		return out, nil

	case btune.CodecZstd:
		opts := []zstd.DOption{}
		if nthreadsDecomp > 0 {
			opts = append(opts, zstd.WithDecoderConcurrency(nthreadsDecomp))
		}
		dec, err := zstd.NewReader(nil, opts...)
		if err != nil {
			return nil, fmt.Errorf("hostsim: zstd reader: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(compressed, make([]byte, 0, outLen))
		if err != nil {
			return nil, fmt.Errorf("hostsim: zstd decode: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("hostsim: codec %v has no decompressor", codec)
	}
}

// zlibLevel maps a Blosc-style 0-9 clevel onto flate's -1..9 scale.
func zlibLevel(clevel int) int {
	if clevel <= 0 {
		return flate.NoCompression
	}
	if clevel > 9 {
		return 9
	}
	return clevel
}

// zstdLevel maps a Blosc-style 0-9 clevel onto zstd's four named
// encoder levels.
func zstdLevel(clevel int) zstd.EncoderLevel {
	switch {
	case clevel <= 1:
		return zstd.SpeedFastest
	case clevel <= 4:
		return zstd.SpeedDefault
	case clevel <= 7:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}
