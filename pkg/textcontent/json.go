package textcontent

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// parseJSONString parses text that fits into a single string.
func parseJSONString(s string) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, malformedJSON(err)
	}
	return v, nil
}

// parseJSONBytes parses the raw buffer directly, so the text is never
// materialized as a string. UTF-16 and invalid UTF-8 input is transcoded to
// valid UTF-8 bytes first, with the same replacements the chunk decoder makes.
func parseJSONBytes(b []byte, enc Encoding) (interface{}, error) {
	if enc == UTF8 && utf8.Valid(b) {
		b = bytes.TrimPrefix(b, utf8BOM)
	} else {
		var buf bytes.Buffer
		buf.Grow(len(b) + len(b)/2)
		if _, err := buf.ReadFrom(transform.NewReader(bytes.NewReader(b), enc.decoder())); err != nil {
			return nil, errors.Wrap(err, "transcoding to utf-8")
		}
		b = buf.Bytes()
	}
	var v interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, &v); err != nil {
		return nil, malformedJSON(err)
	}
	return v, nil
}

func malformedJSON(err error) error {
	offset := int64(-1)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		offset = typeErr.Offset
	}
	return &MalformedJSONError{Offset: offset, Err: err}
}
