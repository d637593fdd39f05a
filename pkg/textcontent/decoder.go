package textcontent

import (
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/text/transform"
)

// Decoder turns byte buffers into chunked text content. It is built once
// from a validated Config and shared by every buffer decoded afterwards.
type Decoder struct {
	logger     log.Logger
	windowSize int
	ascii      bool
}

// NewDecoder returns a decoder for cfg. A non-positive window size falls
// back to DefaultWindowSize and a nil logger discards the ASCII mode warning.
func NewDecoder(cfg Config, logger log.Logger) *Decoder {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	windowSize := int(cfg.WindowSize)
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Decoder{
		logger:     logger,
		windowSize: windowSize,
		ascii:      cfg.DecoderMode == DecoderModeASCII,
	}
}

var defaultDecoder = NewDecoder(DefaultConfig(), nil)

// NewBufferContent decodes b with the default configuration.
func NewBufferContent(b []byte) *BufferContent {
	return defaultDecoder.Decode(b)
}

// Decode eagerly decodes the whole buffer into chunks of at most one window
// each. The buffer is retained by the returned content and must not be
// modified afterwards.
func (d *Decoder) Decode(b []byte) *BufferContent {
	enc := DetectEncoding(b)
	c := &BufferContent{
		bytes:    b,
		encoding: enc,
	}
	if d.ascii {
		level.Warn(d.logger).Log("msg", "stream-aware text decoding is disabled, decoding text as ASCII", "size", len(b))
		c.chunks = decodeASCII(b, d.windowSize)
	} else {
		c.chunks = decodeStream(b, enc, d.windowSize)
	}
	return c
}

// decodeStream decodes b window by window. Only the last window is decoded
// with atEOF set; earlier windows leave an incomplete trailing sequence
// unconsumed so it is decoded together with the next window.
func decodeStream(b []byte, enc Encoding, windowSize int) []string {
	t := enc.decoder()
	n := (len(b) + windowSize - 1) / windowSize
	if n == 0 {
		n = 1
	}
	chunks := make([]string, 0, n)
	dst := make([]byte, min(len(b)+utf8Slack, 64<<10))

	consumed := 0
	for i := 0; i < n; i++ {
		end := min((i+1)*windowSize, len(b))
		atEOF := i == n-1

		var sb strings.Builder
		sb.Grow(end - consumed)
		for {
			nDst, nSrc, err := t.Transform(dst, b[consumed:end], atEOF)
			sb.Write(dst[:nDst])
			consumed += nSrc
			if err == transform.ErrShortDst {
				continue
			}
			// nil, or ErrShortSrc for an incomplete sequence at the end
			// of a window that is not the last one.
			break
		}
		chunks = append(chunks, sb.String())
	}
	return chunks
}

// utf8Slack leaves room for a replacement character in the destination
// buffer of tiny inputs.
const utf8Slack = 8

// decodeASCII maps every byte to the code point of the same value. Each
// chunk is built in a buffer sized for exactly one window.
func decodeASCII(b []byte, windowSize int) []string {
	if len(b) == 0 {
		return []string{""}
	}
	chunks := make([]string, 0, (len(b)+windowSize-1)/windowSize)
	for off := 0; off < len(b); off += windowSize {
		window := b[off:min(off+windowSize, len(b))]
		size := len(window)
		for _, c := range window {
			if c >= 0x80 {
				size++
			}
		}
		var sb strings.Builder
		sb.Grow(size)
		for _, c := range window {
			if c < 0x80 {
				sb.WriteByte(c)
			} else {
				sb.WriteRune(rune(c))
			}
		}
		chunks = append(chunks, sb.String())
	}
	return chunks
}
