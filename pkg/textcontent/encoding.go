package textcontent

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text encoding of a byte buffer, determined from its
// byte-order mark.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
)

func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

// DetectEncoding sniffs the byte-order mark of b. Buffers of two bytes or
// fewer are always UTF-8.
func DetectEncoding(b []byte) Encoding {
	if len(b) > 2 {
		switch {
		case b[0] == 0xff && b[1] == 0xfe:
			return UTF16LE
		case b[0] == 0xfe && b[1] == 0xff:
			return UTF16BE
		}
	}
	return UTF8
}

// decoder returns a fresh decoder for e. The decoders strip a leading
// byte-order mark and replace invalid sequences with U+FFFD.
func (e Encoding) decoder() *encoding.Decoder {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	default:
		return unicode.UTF8BOM.NewDecoder()
	}
}
