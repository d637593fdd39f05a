package datasource

import (
	"context"
	"io"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	ingestcontext "github.com/grafana/profileio/pkg/context"
	"github.com/grafana/profileio/pkg/decompress"
	"github.com/grafana/profileio/pkg/textcontent"
)

type (
	NameFunc func(ctx context.Context) (string, error)
	DataFunc func(ctx context.Context) ([]byte, error)
)

// MaybeCompressed is a source whose raw data may or may not be compressed.
// Decompression is attempted once, the first time the data is needed; if it
// fails for any reason the raw data is used as is.
type MaybeCompressed struct {
	nameFn NameFunc
	dataFn DataFunc

	logger       log.Logger
	metrics      *Metrics
	decompressor decompress.Decompressor
	decoder      *textcontent.Decoder

	name lazy[string]
	data lazy[[]byte]
}

type Option func(*MaybeCompressed)

// WithDecompressor replaces the decompressor, decompress.Auto by default.
func WithDecompressor(d decompress.Decompressor) Option {
	return func(s *MaybeCompressed) { s.decompressor = d }
}

// WithLogger sets the logger. By default the logger is taken from the
// context passed to the first read.
func WithLogger(l log.Logger) Option {
	return func(s *MaybeCompressed) { s.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(s *MaybeCompressed) { s.metrics = m }
}

// WithTextDecoder sets the decoder used by ReadText.
func WithTextDecoder(d *textcontent.Decoder) Option {
	return func(s *MaybeCompressed) { s.decoder = d }
}

func NewMaybeCompressed(name NameFunc, data DataFunc, opts ...Option) *MaybeCompressed {
	s := &MaybeCompressed{
		nameFn:       name,
		dataFn:       data,
		decompressor: decompress.Auto,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FromBytes returns a source over data that is already in memory.
func FromBytes(name string, b []byte, opts ...Option) *MaybeCompressed {
	return NewMaybeCompressed(
		staticName(name),
		func(context.Context) ([]byte, error) { return b, nil },
		opts...,
	)
}

// FromFile returns a source reading path from fs. The file is read the first
// time its data is needed; the name is the base name of path.
func FromFile(fs afero.Fs, path string, opts ...Option) *MaybeCompressed {
	return NewMaybeCompressed(
		staticName(filepath.Base(path)),
		func(context.Context) ([]byte, error) {
			b, err := afero.ReadFile(fs, path)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", path)
			}
			return b, nil
		},
		opts...,
	)
}

// FromReader returns a source reading r to the end the first time its data
// is needed.
func FromReader(name string, r io.Reader, opts ...Option) *MaybeCompressed {
	return NewMaybeCompressed(
		staticName(name),
		func(context.Context) ([]byte, error) {
			b, err := io.ReadAll(r)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", name)
			}
			return b, nil
		},
		opts...,
	)
}

func staticName(name string) NameFunc {
	return func(context.Context) (string, error) { return name, nil }
}

func (s *MaybeCompressed) Name(ctx context.Context) (string, error) {
	return s.name.get(func() (string, error) {
		name, err := s.nameFn(ctx)
		if err != nil {
			return "", &UnreadableSourceError{Err: errors.Wrap(err, "resolving source name")}
		}
		return name, nil
	})
}

func (s *MaybeCompressed) ReadBytes(ctx context.Context) ([]byte, error) {
	return s.data.get(func() ([]byte, error) {
		return s.load(ctx)
	})
}

func (s *MaybeCompressed) ReadText(ctx context.Context) (textcontent.Content, error) {
	b, err := s.ReadBytes(ctx)
	if err != nil {
		return nil, err
	}
	d := s.decoder
	if d == nil {
		d = textcontent.NewDecoder(textcontent.DefaultConfig(), s.loggerFor(ctx))
	}
	return d.Decode(b), nil
}

func (s *MaybeCompressed) load(ctx context.Context) ([]byte, error) {
	raw, err := s.dataFn(ctx)
	if err != nil {
		return nil, &UnreadableSourceError{Err: err}
	}

	logger := s.loggerFor(ctx)
	b, codec, err := s.decompressor.Decompress(raw)
	switch {
	case err == nil:
		level.Debug(logger).Log("msg", "decompressed source data", "codec", codec, "compressed", len(raw), "size", len(b))
		s.observe(codec, "success", len(b))
		return b, nil
	case errors.Is(err, decompress.ErrNotCompressed):
		s.observe(codec, "not_compressed", len(raw))
	default:
		level.Debug(logger).Log("msg", "decompression failed, using raw data", "codec", codec, "size", len(raw), "err", err)
		s.observe(codec, "failure", len(raw))
	}
	return raw, nil
}

// loggerFor returns the configured logger or, without one, the context
// logger scoped to this source.
func (s *MaybeCompressed) loggerFor(ctx context.Context) log.Logger {
	if s.logger != nil {
		return s.logger
	}
	if ingestcontext.Source(ctx) == "" {
		if name, err := s.Name(ctx); err == nil {
			ctx = ingestcontext.WithSource(ctx, name)
		}
	}
	return ingestcontext.Logger(ctx)
}

func (s *MaybeCompressed) observe(codec decompress.Codec, result string, size int) {
	if s.metrics == nil {
		return
	}
	if codec == "" {
		codec = decompress.None
	}
	s.metrics.decompressAttempts.WithLabelValues(string(codec), result).Inc()
	s.metrics.canonicalBytes.Observe(float64(size))
}
