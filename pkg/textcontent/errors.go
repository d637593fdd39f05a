package textcontent

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrCapacityExceeded = errors.New("string exceeds maximum string length")
	ErrMalformedJSON    = errors.New("malformed JSON")
)

// CapacityExceededError is returned when the decoded text spans more than
// one chunk and therefore cannot be handed out as a single string.
type CapacityExceededError struct {
	Size int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: buffer size is %d bytes", ErrCapacityExceeded, e.Size)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// MalformedJSONError wraps the parser error for content that is not valid
// JSON. Offset is the byte offset reported by the parser, or -1 if the parser
// does not report one.
type MalformedJSONError struct {
	Offset int64
	Err    error
}

func (e *MalformedJSONError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %v", ErrMalformedJSON, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %v", ErrMalformedJSON, e.Offset, e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

func (e *MalformedJSONError) Is(target error) bool {
	return target == ErrMalformedJSON
}
