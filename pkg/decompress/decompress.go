// Package decompress detects and undoes the compression containers profiles
// are commonly shipped in. Input that is not compressed is reported with
// ErrNotCompressed so callers can fall back to the raw bytes.
package decompress

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

type Codec string

const (
	None Codec = "none"
	Gzip Codec = "gzip"
	Zlib Codec = "zlib"
	Zstd Codec = "zstd"
	LZ4  Codec = "lz4"
)

var ErrNotCompressed = errors.New("data is not compressed")

// Decompressor decompresses a complete buffer and reports the codec it
// found. Implementations must be safe for concurrent use.
type Decompressor interface {
	Decompress(b []byte) ([]byte, Codec, error)
}

// Func adapts a function to the Decompressor interface.
type Func func(b []byte) ([]byte, Codec, error)

func (f Func) Decompress(b []byte) ([]byte, Codec, error) { return f(b) }

// Auto decompresses any of the supported codecs.
var Auto Decompressor = Func(Decompress)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect inspects the leading bytes of b.
func Detect(b []byte) Codec {
	switch {
	case bytes.HasPrefix(b, gzipMagic):
		return Gzip
	case bytes.HasPrefix(b, zstdMagic):
		return Zstd
	case bytes.HasPrefix(b, lz4Magic):
		return LZ4
	case isZlibHeader(b):
		return Zlib
	}
	return None
}

// isZlibHeader checks the CMF/FLG pair defined in RFC 1950: deflate method,
// a window of at most 32K, and a header checksum that is a multiple of 31.
func isZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	cmf, flg := b[0], b[1]
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// Decompress returns the decompressed content of b. Any error, including
// ErrNotCompressed, means b should be treated as plain data.
func Decompress(b []byte) ([]byte, Codec, error) {
	var (
		codec = Detect(b)
		out   []byte
		err   error
	)
	switch codec {
	case Gzip:
		out, err = decompressGzip(b)
	case Zlib:
		out, err = decompressZlib(b)
	case Zstd:
		out, err = decompressZstd(b)
	case LZ4:
		out, err = decompressLZ4(b)
	default:
		return nil, None, ErrNotCompressed
	}
	if err != nil {
		return nil, codec, errors.Wrapf(err, "%s decompress", codec)
	}
	return out, codec, nil
}

var gzipReaderPool = sync.Pool{
	New: func() any {
		return &gzipReader{
			reader: bytes.NewReader(nil),
		}
	},
}

type gzipReader struct {
	gzip   *gzip.Reader
	reader *bytes.Reader
}

// open gzip, create reader if required
func (r *gzipReader) gzipOpen() error {
	var err error
	if r.gzip == nil {
		r.gzip, err = gzip.NewReader(r.reader)
	} else {
		err = r.gzip.Reset(r.reader)
	}
	return err
}

func decompressGzip(b []byte) ([]byte, error) {
	r := gzipReaderPool.Get().(*gzipReader)
	defer func() {
		r.reader.Reset(nil)
		gzipReaderPool.Put(r)
	}()
	r.reader.Reset(b)
	if err := r.gzipOpen(); err != nil {
		// A failed Reset leaves the reader unusable.
		r.gzip = nil
		return nil, err
	}
	return readAll(r.gzip, len(b))
}

func decompressZlib(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readAll(zr, len(b))
}

// zstdDecoder is shared; zstd.Decoder is safe for concurrent DecodeAll calls.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("decompress: zstd decoder initialization failed: " + err.Error())
	}
}

func decompressZstd(b []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(b, nil)
}

func decompressLZ4(b []byte) ([]byte, error) {
	return readAll(lz4.NewReader(bytes.NewReader(b)), len(b))
}

func readAll(r io.Reader, sizeHint int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(sizeHint * 2)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
