// Package datasource provides named handles to profile data. Every variant
// exposes the same three operations, so importers do not need to know where
// the bytes came from or whether they were compressed.
package datasource

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/grafana/profileio/pkg/textcontent"
)

// Source is a named handle to profile data.
type Source interface {
	// Name returns the display name of the source, e.g. the file name.
	Name(ctx context.Context) (string, error)
	// ReadBytes returns the canonical bytes: decompressed if the raw data
	// was compressed, the raw data otherwise. The returned slice must not be
	// modified.
	ReadBytes(ctx context.Context) ([]byte, error)
	// ReadText returns a fresh text view of the canonical bytes.
	ReadText(ctx context.Context) (textcontent.Content, error)
}

var (
	_ Source = (*MaybeCompressed)(nil)
	_ Source = (*Text)(nil)
)

var ErrUnreadableSource = errors.New("unreadable source")

// UnreadableSourceError is returned when the raw data of a source cannot be
// acquired.
type UnreadableSourceError struct {
	Err error
}

func (e *UnreadableSourceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnreadableSource, e.Err)
}

func (e *UnreadableSourceError) Unwrap() error { return e.Err }

func (e *UnreadableSourceError) Is(target error) bool {
	return target == ErrUnreadableSource
}

// Text is a source whose content is already a string.
type Text struct {
	name     string
	contents string
}

func FromString(name, contents string) *Text {
	return &Text{name: name, contents: contents}
}

func (s *Text) Name(context.Context) (string, error) { return s.name, nil }

func (s *Text) ReadBytes(context.Context) ([]byte, error) {
	return []byte(s.contents), nil
}

func (s *Text) ReadText(context.Context) (textcontent.Content, error) {
	return textcontent.StringContent(s.contents), nil
}
