package textcontent

import (
	"strings"
)

// Content gives access to decoded text without requiring the whole text to
// exist as one string.
type Content interface {
	// Split behaves like strings.Split over the whole text.
	Split(sep string) []string
	// AsString returns the whole text. It fails with a
	// *CapacityExceededError when the text does not fit into one chunk.
	AsString() (string, error)
	// ParseJSON parses the text as a single JSON value into the same
	// tree encoding/json produces for interface{}.
	ParseJSON() (interface{}, error)
}

var (
	_ Content = (*BufferContent)(nil)
	_ Content = StringContent("")
)

// BufferContent is text decoded from a byte buffer into one or more chunks.
type BufferContent struct {
	bytes    []byte
	encoding Encoding
	chunks   []string
}

func (c *BufferContent) Split(sep string) []string {
	if len(c.chunks) == 1 {
		return strings.Split(c.chunks[0], sep)
	}
	return splitChunks(c.chunks, sep)
}

func (c *BufferContent) AsString() (string, error) {
	if len(c.chunks) == 1 {
		return c.chunks[0], nil
	}
	return "", &CapacityExceededError{Size: len(c.bytes)}
}

func (c *BufferContent) ParseJSON() (interface{}, error) {
	if len(c.chunks) == 1 {
		return parseJSONString(c.chunks[0])
	}
	return parseJSONBytes(c.bytes, c.encoding)
}

// Chunks returns the number of decoded chunks.
func (c *BufferContent) Chunks() int { return len(c.chunks) }

func (c *BufferContent) Encoding() Encoding { return c.encoding }

// Size returns the size of the underlying byte buffer.
func (c *BufferContent) Size() int { return len(c.bytes) }

// StringContent is text that is already resident as a single string.
type StringContent string

func (s StringContent) Split(sep string) []string {
	return strings.Split(string(s), sep)
}

func (s StringContent) AsString() (string, error) {
	return string(s), nil
}

func (s StringContent) ParseJSON() (interface{}, error) {
	return parseJSONString(string(s))
}
