// Package bytesize parses and formats human-readable byte quantities such as
// "128MB" for use in flags and YAML configuration.
package bytesize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type ByteSize int64

const (
	Byte ByteSize = 1
	KB            = 1024 * Byte
	MB            = 1024 * KB
	GB            = 1024 * MB
	TB            = 1024 * GB
	PB            = 1024 * TB
)

var suffixes = []struct {
	size ByteSize
	name string
}{
	{PB, "PB"},
	{TB, "TB"},
	{GB, "GB"},
	{MB, "MB"},
	{KB, "KB"},
}

var errParse = errors.New("could not parse ByteSize")

var parseRegexp = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([a-zA-Z]*)\s*$`)

// String returns the largest unit that represents b exactly, or falls back to
// one decimal place of the largest unit not exceeding b.
func (b ByteSize) String() string {
	for _, s := range suffixes {
		if b >= s.size {
			if b%s.size == 0 {
				return fmt.Sprintf("%d%s", b/s.size, s.name)
			}
			return fmt.Sprintf("%.1f%s", float64(b)/float64(s.size), s.name)
		}
	}
	return fmt.Sprintf("%dB", int64(b))
}

// Set implements flag.Value.
func (b *ByteSize) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Both plain integers and
// strings with a unit suffix are accepted.
func (b *ByteSize) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return b.Set(s)
}

// MarshalYAML implements yaml.Marshaler.
func (b ByteSize) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

func Parse(str string) (ByteSize, error) {
	m := parseRegexp.FindStringSubmatch(str)
	if m == nil {
		return 0, errParse
	}
	unit, err := parseUnit(m[2])
	if err != nil {
		return 0, err
	}
	if !strings.Contains(m[1], ".") {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, errParse
		}
		if n > math.MaxInt64/int64(unit) {
			return 0, errParse
		}
		return ByteSize(n) * unit, nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errParse
	}
	// float64(MaxInt64) rounds up to 2^63, which no longer fits.
	if v := f * float64(unit); v < math.MaxInt64 {
		return ByteSize(v), nil
	}
	return 0, errParse
}

func parseUnit(s string) (ByteSize, error) {
	switch strings.ToUpper(s) {
	case "", "B":
		return Byte, nil
	case "K", "KB":
		return KB, nil
	case "M", "MB":
		return MB, nil
	case "G", "GB":
		return GB, nil
	case "T", "TB":
		return TB, nil
	case "P", "PB":
		return PB, nil
	}
	return 0, errParse
}
