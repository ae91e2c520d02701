package jump

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/csimplestring/go-csv/detector"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

// Magic bytes from https://stackoverflow.com/a/19127748/199475 . The
// metadata tables ship as .csv.gz and the knowledge-graph exports as .zip,
// but files that have been cached locally may already be unpacked.
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression sniffs the compression of a stream from its leading
// bytes, without consuming the passed reader.
func DetectCompression(r *bufio.Reader) (Compression, error) {
	buff, err := r.Peek(6)
	if err != nil && len(buff) == 0 {
		return CompressionInvalid, err
	}

Outer:
	for ct, sig := range compressionSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return ct, nil
	}

	return CompressionNone, nil
}

// MaybeDecompress wraps r in the appropriate decompressor, or returns it
// unchanged when no known compression signature matches.
func MaybeDecompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	ct, err := DetectCompression(br)
	if err != nil {
		return nil, err
	}

	switch ct {
	case CompressionGzip:
		return gzip.NewReader(br)
	case CompressionZip:
		// A bare zip stream only makes sense when the caller wants the
		// first (or only) member, which is how the KG exports are shaped.
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		return zr, nil
	case CompressionBZip2:
		return bzip2.NewReader(br), nil
	case CompressionXZ:
		return xz.NewReader(br, 0)
	case CompressionZ:
		return zlib.NewReader(br)
	}

	return br, nil
}

// PeekDelimiter buffers enough of r to sniff its CSV delimiter, returning
// the delimiter and a reader positioned back at the start. The JUMP metadata
// tables are comma-delimited but the load-data frames have shipped both
// comma- and tab-delimited, so we sniff rather than assume; when the sample
// is ambiguous, comma wins.
func PeekDelimiter(r io.Reader, sampleSize int) (rune, io.Reader, error) {
	sample := make([]byte, sampleSize)
	n, err := io.ReadFull(r, sample)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, nil, err
	}
	sample = sample[:n]

	delim := ','
	if candidates := detector.New().DetectDelimiter(bytes.NewReader(sample), '"'); len(candidates) > 0 {
		delim = rune(candidates[0][0])
	}

	return delim, io.MultiReader(bytes.NewReader(sample), r), nil
}
