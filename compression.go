package mediabase

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

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

// Magic-byte signatures from https://stackoverflow.com/a/19127748/199475
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression sniffs the first bytes of an upload and reports which
// compression scheme, if any, wrapped it. Sequencing cores routinely gzip
// expression tables before handing them over, and nothing in the filename
// can be trusted to say so.
func DetectCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return CompressionInvalid, err
	}

Sigs:
	for c, sig := range compressionSigs {
		for i := range sig {
			if buff[i] != sig[i] {
				continue Sigs
			}
		}
		return c, nil
	}

	return CompressionNone, nil
}

// DecompressUpload wraps an upload file in the decompressor its magic bytes
// call for, or returns the file itself when it is plain text.
func DecompressUpload(f *os.File) (io.ReadCloser, error) {
	c, err := DetectCompression(f)
	if err != nil {
		return nil, err
	}

	// Rewind past the sniffed bytes before handing the file to a decompressor.
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	switch c {
	case CompressionGzip:
		return gzip.NewReader(f)
	case CompressionZip:
		return &nopCloser{zipstream.NewReader(f)}, nil
	case CompressionBZip2:
		return &nopCloser{bzip2.NewReader(f)}, nil
	case CompressionXZ:
		r, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &nopCloser{r}, nil
	case CompressionZ:
		// compress(1) .Z is LZW in a container the stdlib does not speak;
		// refuse it by name rather than hand the stream to the wrong
		// decoder and surface a header error.
		return nil, fmt.Errorf("%s appears to be compress(1) .Z data, which is not supported; re-upload as gzip", f.Name())
	}

	// Nothing recognized; assume uncompressed.
	return f, nil
}

// nopCloser "upgrades" readers that don't need to be closed
type nopCloser struct {
	io.Reader
}

func (c *nopCloser) Close() error {
	return nil
}
