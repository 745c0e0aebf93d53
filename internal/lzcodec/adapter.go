// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package lzcodec

// LevelCompress compresses src at a blosc-style clevel (0-9; 0 and 1
// both select the fast LZO1X-1 path, 2-9 select LZO1X-999) and returns
// the compressed bytes. It is the seam hostsim's fast-codec family calls
// through; typesize is accepted for interface symmetry with the shuffle
// filters but LZO1X itself is byte-oriented and ignores it.
func LevelCompress(src []byte, clevel int, typesize int) ([]byte, error) {
	_ = typesize
	return Compress(src, &CompressOptions{Level: clevel})
}

// LevelDecompress decompresses src, which must have been produced by
// LevelCompress, into a buffer of outLen bytes.
func LevelDecompress(src []byte, outLen int) ([]byte, error) {
	return Decompress(src, DefaultDecompressOptions(outLen))
}
