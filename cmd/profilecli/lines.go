package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	ingestcontext "github.com/grafana/profileio/pkg/context"
	"github.com/grafana/profileio/pkg/textcontent"
)

type linesParams struct {
	path      string
	separator string
	limit     int
	skipEmpty bool
}

func addLinesParams(cmd commander) *linesParams {
	params := &linesParams{}
	cmd.Arg("path", "Path to a profile data file, - for standard input.").Required().StringVar(&params.path)
	cmd.Flag("separator", "Separator to split the text by.").Default("\n").StringVar(&params.separator)
	cmd.Flag("limit", "Maximum number of fragments to print, 0 for all.").Default("0").IntVar(&params.limit)
	cmd.Flag("skip-empty", "Do not print empty fragments.").Default("false").BoolVar(&params.skipEmpty)
	return params
}

func lines(ctx context.Context, env *environment, params *linesParams) error {
	text, err := env.open(ctx, params.path).ReadText(ctx)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(output(ctx))
	printed := 0
	for _, fragment := range text.Split(params.separator) {
		if params.skipEmpty && fragment == "" {
			continue
		}
		if params.limit > 0 && printed == params.limit {
			break
		}
		if _, err := fmt.Fprintln(w, fragment); err != nil {
			return err
		}
		printed++
	}
	return w.Flush()
}

type jsonParams struct {
	path   string
	indent string
}

func addJSONParams(cmd commander) *jsonParams {
	params := &jsonParams{}
	cmd.Arg("path", "Path to a profile data file, - for standard input.").Required().StringVar(&params.path)
	cmd.Flag("indent", "Indentation of the printed JSON.").Default("  ").StringVar(&params.indent)
	return params
}

func printJSON(ctx context.Context, env *environment, params *jsonParams) error {
	text, err := env.open(ctx, params.path).ReadText(ctx)
	if err != nil {
		return err
	}
	if _, err := text.AsString(); errors.Is(err, textcontent.ErrCapacityExceeded) {
		level.Debug(ingestcontext.Logger(ctx)).Log("msg", "text spans multiple chunks, parsing from bytes", "path", params.path)
	}
	v, err := text.ParseJSON()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(output(ctx))
	enc.SetIndent("", params.indent)
	return enc.Encode(v)
}
