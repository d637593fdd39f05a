package textcontent

import (
	"flag"
	"fmt"

	"github.com/grafana/profileio/pkg/util/bytesize"
)

// DefaultWindowSize is the number of bytes decoded into a single chunk.
// Strings much longer than this become expensive to build and hold, so the
// decoded text of larger buffers is kept as a sequence of chunks.
const DefaultWindowSize = 1 << 27

const (
	// DecoderModeStream decodes with a stream-aware decoder that carries
	// incomplete multi-byte sequences across windows.
	DecoderModeStream = "stream"
	// DecoderModeASCII maps every byte to the code point of the same value.
	// It is only correct for 7-bit ASCII input.
	DecoderModeASCII = "ascii"
)

// Config controls how byte buffers are decoded into text chunks.
type Config struct {
	WindowSize  bytesize.ByteSize `yaml:"window_size"`
	DecoderMode string            `yaml:"decoder_mode"`
}

// RegisterFlags registers the flags.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("text.", f)
}

// RegisterFlagsWithPrefix registers the flags under prefix and resets cfg to
// the flag defaults.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	cfg.WindowSize = DefaultWindowSize
	f.Var(&cfg.WindowSize, prefix+"window-size", "Maximum number of bytes decoded into a single text chunk.")
	f.StringVar(&cfg.DecoderMode, prefix+"decoder-mode", DecoderModeStream, fmt.Sprintf("Text decoder to use: %q or %q.", DecoderModeStream, DecoderModeASCII))
}

// Validate checks the window size and decoder mode.
func (cfg *Config) Validate() error {
	if cfg.WindowSize <= 0 {
		return fmt.Errorf("text.window-size must be positive, got %d", cfg.WindowSize)
	}
	switch cfg.DecoderMode {
	case DecoderModeStream, DecoderModeASCII:
	default:
		return fmt.Errorf("unsupported text.decoder-mode %q", cfg.DecoderMode)
	}
	return nil
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		WindowSize:  DefaultWindowSize,
		DecoderMode: DecoderModeStream,
	}
}
