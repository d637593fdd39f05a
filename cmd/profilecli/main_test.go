package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	ingestcontext "github.com/grafana/profileio/pkg/context"
	"github.com/grafana/profileio/pkg/datasource"
	"github.com/grafana/profileio/pkg/textcontent"
	"github.com/grafana/profileio/pkg/util/bytesize"
)

const collapsed = "main;work;compute 120\nmain;work;io 30\nmain;idle 7\n"

func gzipString(t testing.TB, s string) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newTestEnv(t *testing.T, windowSize bytesize.ByteSize, stdin string) (context.Context, *environment, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/cpu.collapsed.gz", gzipString(t, collapsed), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/trace.json", []byte(`{"traceEvents":[{"ph":"B","ts":1},{"ph":"E","ts":2}]}`), 0o644))

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(collapsed))
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/data/cpu.utf16", utf16, 0o644))

	var out bytes.Buffer
	ctx := ingestcontext.WithLogger(context.Background(), log.NewNopLogger())
	ctx = withOutput(ctx, &out)

	decoder := textcontent.NewDecoder(textcontent.Config{
		WindowSize:  windowSize,
		DecoderMode: textcontent.DecoderModeStream,
	}, log.NewNopLogger())
	return ctx, &environment{
		fs:      fs,
		stdin:   strings.NewReader(stdin),
		decoder: decoder,
		metrics: datasource.NewMetrics(prometheus.NewRegistry()),
	}, &out
}

func TestInspect(t *testing.T) {
	ctx, env, out := newTestEnv(t, 16, collapsed)
	err := inspect(ctx, env, &inspectParams{
		paths:       []string{"/data/cpu.collapsed.gz", "/data/trace.json", "/data/cpu.utf16", "-"},
		separator:   "\n",
		concurrency: 2,
		output:      "json",
	})
	require.NoError(t, err)

	dec := json.NewDecoder(out)
	var summaries []summary
	for dec.More() {
		var s summary
		require.NoError(t, dec.Decode(&s))
		summaries = append(summaries, s)
	}
	require.Len(t, summaries, 4)

	assert.Equal(t, "cpu.collapsed.gz", summaries[0].Name)
	assert.Equal(t, "gzip", summaries[0].Codec)
	assert.Equal(t, len(collapsed), summaries[0].Size)
	assert.Equal(t, 4, summaries[0].Lines)
	assert.Greater(t, summaries[0].Chunks, 1)
	assert.False(t, summaries[0].ValidJSON)

	assert.Equal(t, "trace.json", summaries[1].Name)
	assert.Equal(t, "none", summaries[1].Codec)
	assert.True(t, summaries[1].ValidJSON)

	assert.Equal(t, "utf-16le", summaries[2].Encoding)
	assert.Equal(t, 4, summaries[2].Lines)

	assert.Equal(t, "stdin", summaries[3].Name)
	assert.Equal(t, 4, summaries[3].Lines)
}

func TestInspectTable(t *testing.T) {
	ctx, env, out := newTestEnv(t, textcontent.DefaultWindowSize, "")
	require.NoError(t, inspect(ctx, env, &inspectParams{
		paths:     []string{"/data/cpu.collapsed.gz"},
		separator: "\n",
		output:    "table",
	}))
	assert.Contains(t, out.String(), "cpu.collapsed.gz")
	assert.Contains(t, out.String(), "gzip")
	assert.Contains(t, out.String(), "utf-8")
}

func TestInspectLogsPerSource(t *testing.T) {
	ctx, env, _ := newTestEnv(t, textcontent.DefaultWindowSize, "")
	var logs bytes.Buffer
	ctx = ingestcontext.WithLogger(ctx, log.NewLogfmtLogger(log.NewSyncWriter(&logs)))
	require.NoError(t, inspect(ctx, env, &inspectParams{
		paths:     []string{"/data/cpu.collapsed.gz"},
		separator: "\n",
		output:    "json",
	}))
	assert.Contains(t, logs.String(), "source=/data/cpu.collapsed.gz")
	assert.Contains(t, logs.String(), "codec=gzip")
}

func TestInspectMissingFile(t *testing.T) {
	ctx, env, _ := newTestEnv(t, textcontent.DefaultWindowSize, "")
	err := inspect(ctx, env, &inspectParams{paths: []string{"/data/missing"}, separator: "\n"})
	require.Error(t, err)
	assert.ErrorIs(t, err, datasource.ErrUnreadableSource)
}

func TestLines(t *testing.T) {
	ctx, env, out := newTestEnv(t, 8, "")
	require.NoError(t, lines(ctx, env, &linesParams{
		path:      "/data/cpu.collapsed.gz",
		separator: "\n",
		skipEmpty: true,
	}))
	assert.Equal(t, collapsed, out.String())

	out.Reset()
	require.NoError(t, lines(ctx, env, &linesParams{
		path:      "/data/cpu.collapsed.gz",
		separator: ";",
		limit:     2,
	}))
	assert.Equal(t, "main\nwork\n", out.String())
}

func TestPrintJSON(t *testing.T) {
	for _, windowSize := range []bytesize.ByteSize{8, textcontent.DefaultWindowSize} {
		ctx, env, out := newTestEnv(t, windowSize, "")
		require.NoError(t, printJSON(ctx, env, &jsonParams{path: "/data/trace.json", indent: ""}))
		assert.JSONEq(t, `{"traceEvents":[{"ph":"B","ts":1},{"ph":"E","ts":2}]}`, out.String())
	}

	ctx, env, _ := newTestEnv(t, 8, "")
	err := printJSON(ctx, env, &jsonParams{path: "/data/cpu.collapsed.gz"})
	assert.ErrorIs(t, err, textcontent.ErrMalformedJSON)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", textFlags{})
	require.NoError(t, err)
	assert.Equal(t, textcontent.DefaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("text:\n  window_size: 64KB\n  decoder_mode: ascii\n"), 0o644))

	cfg, err = loadConfig(path, textFlags{})
	require.NoError(t, err)
	assert.Equal(t, 64*bytesize.KB, cfg.WindowSize)
	assert.Equal(t, textcontent.DecoderModeASCII, cfg.DecoderMode)

	cfg, err = loadConfig(path, textFlags{windowSize: "1MB", decoderMode: textcontent.DecoderModeStream})
	require.NoError(t, err)
	assert.Equal(t, bytesize.MB, cfg.WindowSize)
	assert.Equal(t, textcontent.DecoderModeStream, cfg.DecoderMode)

	_, err = loadConfig(path, textFlags{windowSize: "lots"})
	require.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), textFlags{})
	require.Error(t, err)
}
