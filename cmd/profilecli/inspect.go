package main

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	ingestcontext "github.com/grafana/profileio/pkg/context"
	"github.com/grafana/profileio/pkg/datasource"
	"github.com/grafana/profileio/pkg/decompress"
	"github.com/grafana/profileio/pkg/textcontent"
)

type inspectParams struct {
	paths       []string
	separator   string
	concurrency int
	output      string
}

func addInspectParams(cmd commander) *inspectParams {
	params := &inspectParams{}
	cmd.Arg("path", "Path(s) to profile data file(s), - for standard input.").Required().StringsVar(&params.paths)
	cmd.Flag("separator", "Separator used to count lines.").Default("\n").StringVar(&params.separator)
	cmd.Flag("concurrency", "Number of files inspected concurrently.").Default("4").IntVar(&params.concurrency)
	cmd.Flag("output", "Output format.").Default("table").EnumVar(&params.output, "table", "json")
	return params
}

// summary describes one inspected source.
type summary struct {
	Name      string `json:"name"`
	RawSize   int    `json:"rawSize"`
	Size      int    `json:"size"`
	Codec     string `json:"codec"`
	Encoding  string `json:"encoding"`
	Chunks    int    `json:"chunks"`
	Lines     int    `json:"lines"`
	ValidJSON bool   `json:"validJSON"`
}

func inspect(ctx context.Context, env *environment, params *inspectParams) error {
	summaries := make([]summary, len(params.paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(params.concurrency, 1))
	for i, path := range params.paths {
		g.Go(func() error {
			s, err := inspectSource(ctx, env, path, params.separator)
			if err != nil {
				return errors.Wrapf(err, "inspecting %s", path)
			}
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if params.output == "json" {
		return outputSummariesJSON(output(ctx), summaries)
	}
	return outputSummaries(output(ctx), summaries)
}

func inspectSource(ctx context.Context, env *environment, path, separator string) (summary, error) {
	ctx = ingestcontext.WithSource(ctx, path)
	rec := &codecRecorder{codec: decompress.None}
	src := env.open(ctx, path, datasource.WithDecompressor(rec))

	var s summary
	var err error
	if s.Name, err = src.Name(ctx); err != nil {
		return s, err
	}
	b, err := src.ReadBytes(ctx)
	if err != nil {
		return s, err
	}
	s.Size = len(b)
	s.RawSize, s.Codec = rec.result()
	if s.Codec == string(decompress.None) {
		s.RawSize = s.Size
	}

	text, err := src.ReadText(ctx)
	if err != nil {
		return s, err
	}
	if bc, ok := text.(*textcontent.BufferContent); ok {
		s.Encoding = bc.Encoding().String()
		s.Chunks = bc.Chunks()
	}
	s.Lines = len(text.Split(separator))
	_, err = text.ParseJSON()
	s.ValidJSON = err == nil
	return s, nil
}

// codecRecorder remembers which codec decompressed the source, if any.
type codecRecorder struct {
	mtx     sync.Mutex
	codec   decompress.Codec
	rawSize int
}

func (r *codecRecorder) Decompress(b []byte) ([]byte, decompress.Codec, error) {
	out, codec, err := decompress.Decompress(b)
	if err == nil {
		r.mtx.Lock()
		r.codec, r.rawSize = codec, len(b)
		r.mtx.Unlock()
	}
	return out, codec, err
}

func (r *codecRecorder) result() (int, string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.rawSize, string(r.codec)
}
