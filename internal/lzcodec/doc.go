// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

/*
Package lzcodec implements LZO1X compression and decompression
(lzo1x_decompress_safe-compatible).

It backs the fast byte-oriented codec family (LZ4/LZ4HC/BLOSCLZ stand-ins)
that package hostsim exposes to the btune tuner, via LevelCompress /
LevelDecompress in adapter.go. The format uses match types M1-M4 with
different offset and length bounds; the stream ends with a terminator
(distance 0x4000, length 3).

# Decompress

OutLen is required (use DecompressOptions). From a byte slice:

	out, err := lzcodec.Decompress(compressed, lzcodec.DefaultDecompressOptions(expectedLen))

To get the number of input bytes consumed (e.g. for back-to-back compressed blocks):

	out, nRead, err := lzcodec.DecompressN(compressed, lzcodec.DefaultDecompressOptions(expectedLen))
	// advance: compressed = compressed[nRead:]

From an io.Reader (e.g. stream with known decompressed size):

	out, err := lzcodec.DecompressFromReader(r, lzcodec.DefaultDecompressOptions(expectedLen))

# Compress

Options may be nil (default level 1). Level 0 or 1 = fast LZO1X-1; 2-9 = LZO1X-999:

	out, err := lzcodec.Compress(data, nil)
	out, err := lzcodec.Compress(data, &lzcodec.CompressOptions{Level: 9})
*/
package lzcodec
