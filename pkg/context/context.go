// Package context carries the logger, the metrics registerer and the name
// of the source being ingested through a context.Context.
package context

import (
	"context"
	"os"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

type contextKey int

const (
	loggerKey contextKey = iota
	registryKey
	sourceKey
)

var defaultLogger = log.NewLogfmtLogger(os.Stderr)

func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the logger stored in ctx, or a logfmt logger writing to
// stderr.
func Logger(ctx context.Context) log.Logger {
	if logger, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return logger
	}
	return defaultLogger
}

func WithRegistry(ctx context.Context, registry prometheus.Registerer) context.Context {
	return context.WithValue(ctx, registryKey, registry)
}

// Registry returns the registerer stored in ctx. Without one, a fresh
// registry is returned so that callers can always register metrics.
func Registry(ctx context.Context) prometheus.Registerer {
	if registry, ok := ctx.Value(registryKey).(prometheus.Registerer); ok {
		return registry
	}
	return prometheus.NewRegistry()
}

// WithSource scopes ctx to the source called name: the logger gets a source
// field and a registerer, if present, adds a source label to everything
// registered through it.
func WithSource(ctx context.Context, name string) context.Context {
	if reg, ok := ctx.Value(registryKey).(prometheus.Registerer); ok {
		ctx = WithRegistry(ctx, prometheus.WrapRegistererWith(
			prometheus.Labels{"source": name},
			reg,
		))
	}
	ctx = WithLogger(ctx, log.With(Logger(ctx), "source", name))
	return context.WithValue(ctx, sourceKey, name)
}

// Source returns the name set by WithSource, or "" outside a source scope.
func Source(ctx context.Context) string {
	name, _ := ctx.Value(sourceKey).(string)
	return name
}
