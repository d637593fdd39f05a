package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	"gopkg.in/alecthomas/kingpin.v2"

	ingestcontext "github.com/grafana/profileio/pkg/context"
)

var cfg struct {
	verbose    bool
	configFile string
	text       textFlags
}

var (
	consoleOutput = os.Stderr
	logger        = log.NewLogfmtLogger(consoleOutput)
)

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Tooling for reading profile data files, compressed or not, of any size.").UsageWriter(os.Stdout)
	app.Version(version.Print("profilecli"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("0").BoolVar(&cfg.verbose)
	app.Flag("config.file", "YAML file to load the text decoding configuration from.").StringVar(&cfg.configFile)
	cfg.text.register(app)

	inspectCmd := app.Command("inspect", "Print a summary of profile data file(s).")
	inspectParams := addInspectParams(inspectCmd)

	linesCmd := app.Command("lines", "Split a profile data file and print its fragments.")
	linesParams := addLinesParams(linesCmd)

	jsonCmd := app.Command("json", "Parse a profile data file as JSON and print it.")
	jsonParams := addJSONParams(jsonCmd)

	// parse command line arguments
	parsedCmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	// enable verbose logging if requested
	if !cfg.verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	ctx := ingestcontext.WithLogger(context.Background(), logger)
	ctx = ingestcontext.WithRegistry(ctx, prometheus.NewRegistry())
	ctx = withOutput(ctx, os.Stdout)

	env, err := newEnvironment(ctx)
	if err != nil {
		os.Exit(checkError(err))
	}

	switch parsedCmd {
	case inspectCmd.FullCommand():
		if err := inspect(ctx, env, inspectParams); err != nil {
			os.Exit(checkError(err))
		}
	case linesCmd.FullCommand():
		if err := lines(ctx, env, linesParams); err != nil {
			os.Exit(checkError(err))
		}
	case jsonCmd.FullCommand():
		if err := printJSON(ctx, env, jsonParams); err != nil {
			os.Exit(checkError(err))
		}
	default:
		level.Error(logger).Log("msg", "unknown command", "cmd", parsedCmd)
	}
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}

type contextKey uint8

const (
	contextKeyOutput contextKey = iota
)

func withOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, contextKeyOutput, w)
}

func output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(contextKeyOutput).(io.Writer); ok {
		return w
	}
	return os.Stdout
}

type commander interface {
	Flag(name, help string) *kingpin.FlagClause
	Arg(name, help string) *kingpin.ArgClause
}
