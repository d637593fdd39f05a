package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	ingestcontext "github.com/grafana/profileio/pkg/context"
	"github.com/grafana/profileio/pkg/datasource"
	"github.com/grafana/profileio/pkg/textcontent"
)

// fileConfig is the layout of the file passed with --config.file.
type fileConfig struct {
	Text textcontent.Config `yaml:"text"`
}

// textFlags override the file configuration when set.
type textFlags struct {
	windowSize  string
	decoderMode string
}

func (f *textFlags) register(cmd commander) {
	cmd.Flag("text.window-size", "Maximum number of bytes decoded into a single text chunk, e.g. 128MB.").StringVar(&f.windowSize)
	cmd.Flag("text.decoder-mode", "Text decoder to use.").EnumVar(&f.decoderMode, textcontent.DecoderModeStream, textcontent.DecoderModeASCII)
}

// loadConfig resolves the text decoding configuration: flag defaults, then
// the YAML file, then explicitly set command line flags.
func loadConfig(path string, flags textFlags) (textcontent.Config, error) {
	var cfg fileConfig
	cfg.Text.RegisterFlags(flag.NewFlagSet("defaults", flag.ContinueOnError))

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return textcontent.Config{}, errors.Wrap(err, "reading config file")
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return textcontent.Config{}, errors.Wrapf(err, "parsing config file %s", path)
		}
	}

	if flags.windowSize != "" {
		if err := cfg.Text.WindowSize.Set(flags.windowSize); err != nil {
			return textcontent.Config{}, errors.Wrapf(err, "invalid text.window-size %q", flags.windowSize)
		}
	}
	if flags.decoderMode != "" {
		cfg.Text.DecoderMode = flags.decoderMode
	}
	if err := cfg.Text.Validate(); err != nil {
		return textcontent.Config{}, err
	}
	return cfg.Text, nil
}

// environment holds what every command needs to open sources. It is built
// once, after the configuration has been resolved.
type environment struct {
	fs      afero.Fs
	stdin   io.Reader
	decoder *textcontent.Decoder
	metrics *datasource.Metrics
}

func newEnvironment(ctx context.Context) (*environment, error) {
	textCfg, err := loadConfig(cfg.configFile, cfg.text)
	if err != nil {
		return nil, err
	}
	logger := ingestcontext.Logger(ctx)
	return &environment{
		fs:      afero.NewReadOnlyFs(afero.NewOsFs()),
		stdin:   os.Stdin,
		decoder: textcontent.NewDecoder(textCfg, logger),
		metrics: datasource.NewMetrics(ingestcontext.Registry(ctx)),
	}, nil
}

// open returns a source for path; "-" reads standard input.
func (e *environment) open(ctx context.Context, path string, opts ...datasource.Option) *datasource.MaybeCompressed {
	opts = append([]datasource.Option{
		datasource.WithLogger(ingestcontext.Logger(ctx)),
		datasource.WithMetrics(e.metrics),
		datasource.WithTextDecoder(e.decoder),
	}, opts...)
	if path == "-" {
		return datasource.FromReader("stdin", e.stdin, opts...)
	}
	return datasource.FromFile(e.fs, path, opts...)
}
