package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-bond/algoperf"
	"github.com/go-bond/algoperf/reporters"
	"github.com/go-bond/algoperf/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

var _FlagURL = &cli.StringFlag{
	Name:     "url",
	Usage:    "sets remote algoperf url, runs in process when empty",
	EnvVars:  []string{"ALGOPERF_URL"},
	Required: false,
}

var _FlagHeaders = &cli.StringSliceFlag{
	Name:     "headers",
	Usage:    "sets http headers",
	Value:    cli.NewStringSlice(),
	Required: false,
}

var _FlagLogLevel = &cli.StringFlag{
	Name:     "log-level",
	Usage:    "sets log level",
	Value:    "info",
	EnvVars:  []string{"ALGOPERF_LOG_LEVEL"},
	Required: false,
}

var _FlagHistoryDir = &cli.StringFlag{
	Name:     "history-dir",
	Usage:    "sets run history dir, history is disabled when empty",
	EnvVars:  []string{"ALGOPERF_HISTORY_DIR"},
	Required: false,
}

var _FlagSeed = &cli.Int64Flag{
	Name:     "seed",
	Usage:    "sets random seed for reproducible inputs",
	Required: false,
}

var _FlagSizes = &cli.IntSliceFlag{
	Name:     "sizes",
	Usage:    "sets input size sweep",
	Value:    cli.NewIntSlice(algoperf.DefaultSizes()...),
	Required: false,
}

var _FlagRuns = &cli.IntFlag{
	Name:     "runs",
	Usage:    "sets trials per size",
	Value:    algoperf.DefaultRunsPerSize,
	Required: false,
}

var _FlagAlgorithm = &cli.StringFlag{
	Name:     "algorithm",
	Aliases:  []string{"a"},
	Usage:    "sets algorithm id",
	Required: true,
}

var _FlagFormat = &cli.StringFlag{
	Name:     "format",
	Usage:    "sets output format: table, csv or json",
	Value:    formatTable,
	Required: false,
}

var _FlagGrowth = &cli.BoolFlag{
	Name:     "growth",
	Usage:    "prints time growth between consecutive sizes",
	Required: false,
}

var _FlagLimit = &cli.IntFlag{
	Name:     "limit",
	Usage:    "sets run limit",
	Value:    10,
	Required: false,
}

var _FlagDeadline = &cli.DurationFlag{
	Name:     "deadline",
	Usage:    "sets benchmark deadline",
	Value:    5 * time.Minute,
	Required: false,
}

var _FlagListen = &cli.StringFlag{
	Name:     "listen",
	Usage:    "sets listen address",
	Value:    ":8080",
	EnvVars:  []string{"ALGOPERF_LISTEN"},
	Required: false,
}

type cliState struct {
	logger  *zap.Logger
	service Service

	// local mode only
	engine  *algoperf.Engine
	history *store.Store
}

func (s *cliState) local() bool {
	return s.engine != nil
}

// NewCLI returns the algoperf command line app. registry may be nil for the
// built-in algorithms.
func NewCLI(registry *algoperf.Registry) *cli.App {
	state := &cliState{}

	return &cli.App{
		Name: "algoperf",
		Usage: "Benchmarks sorting and searching algorithms.\n\n" +
			"algoperf algorithms\n" +
			"algoperf --seed 1 run --algorithm quickSort\n" +
			"algoperf --history-dir .algoperf run-all --format csv\n" +
			"algoperf --url http://localhost:8080/api run --algorithm binarySearch",
		Flags: []cli.Flag{
			_FlagURL,
			_FlagHeaders,
			_FlagLogLevel,
			_FlagHistoryDir,
			_FlagSeed,
			_FlagSizes,
			_FlagRuns,
		},
		Before: func(ctx *cli.Context) error {
			return state.init(ctx, registry)
		},
		After: func(ctx *cli.Context) error {
			return state.close()
		},
		Commands: []*cli.Command{
			{
				Name:  "algorithms",
				Usage: "lists registered algorithms",
				Action: func(ctx *cli.Context) error {
					algorithms, err := state.service.Algorithms(ctx.Context)
					if err != nil {
						return err
					}
					return printJSON(ctx.App.Writer, algorithms)
				},
			},
			{
				Name:  "run",
				Usage: "benchmarks one algorithm",
				Flags: []cli.Flag{
					_FlagAlgorithm,
					_FlagFormat,
					_FlagGrowth,
					_FlagDeadline,
				},
				Action: func(ctx *cli.Context) error {
					reporter, err := newReporter(ctx.App.Writer, ctx.String(_FlagFormat.Name))
					if err != nil {
						return err
					}

					runCtx, cancel := context.WithTimeout(ctx.Context, ctx.Duration(_FlagDeadline.Name))
					defer cancel()

					report, err := state.service.Benchmark(runCtx, ctx.String(_FlagAlgorithm.Name))
					if err != nil {
						return err
					}

					if err = reporter.Report([]*algoperf.Report{report}); err != nil {
						return err
					}
					if ctx.Bool(_FlagGrowth.Name) {
						return printGrowth(ctx.App.Writer, report)
					}
					return nil
				},
			},
			{
				Name:  "run-all",
				Usage: "benchmarks every registered algorithm",
				Flags: []cli.Flag{
					_FlagFormat,
					_FlagDeadline,
				},
				Action: func(ctx *cli.Context) error {
					reporter, err := newReporter(ctx.App.Writer, ctx.String(_FlagFormat.Name))
					if err != nil {
						return err
					}

					runCtx, cancel := context.WithTimeout(ctx.Context, ctx.Duration(_FlagDeadline.Name))
					defer cancel()

					reports, err := state.runAll(runCtx)
					if err != nil {
						return err
					}
					return reporter.Report(reports)
				},
			},
			{
				Name:  "history",
				Usage: "lists recorded runs of an algorithm",
				Flags: []cli.Flag{
					_FlagAlgorithm,
					_FlagLimit,
				},
				Action: func(ctx *cli.Context) error {
					runs, err := state.service.History(ctx.Context, ctx.String(_FlagAlgorithm.Name), ctx.Int(_FlagLimit.Name))
					if err != nil {
						return err
					}
					return printHistory(ctx.App.Writer, runs)
				},
			},
			{
				Name:  "compare",
				Usage: "compares the two latest recorded runs of an algorithm",
				Flags: []cli.Flag{
					_FlagAlgorithm,
				},
				Action: func(ctx *cli.Context) error {
					algorithmID := ctx.String(_FlagAlgorithm.Name)

					runs, err := state.service.History(ctx.Context, algorithmID, 2)
					if err != nil {
						return err
					}
					if len(runs) < 2 {
						return fmt.Errorf("need two recorded runs of %s, have %d", algorithmID, len(runs))
					}
					return printComparison(ctx.App.Writer, &runs[0], &runs[1])
				},
			},
			{
				Name:  "serve",
				Usage: "serves the benchmark api over http",
				Flags: []cli.Flag{
					_FlagListen,
				},
				Action: func(ctx *cli.Context) error {
					if !state.local() {
						return errors.New("serve can not be used with a remote url")
					}
					return state.serve(ctx.Context, ctx.String(_FlagListen.Name))
				},
			},
		},
		HideHelpCommand: true,
	}
}

func (s *cliState) init(ctx *cli.Context, registry *algoperf.Registry) error {
	logger, err := newLogger(ctx.String(_FlagLogLevel.Name))
	if err != nil {
		return err
	}
	s.logger = logger

	url := ctx.String(_FlagURL.Name)
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		headers, err := parseHeaders(ctx.StringSlice(_FlagHeaders.Name))
		if err != nil {
			return err
		}

		s.service = NewRemote(url, headers)
		return nil
	} else if url != "" {
		return fmt.Errorf("unsupported url: %s", url)
	}

	opts := algoperf.DefaultOptions()
	opts.Sizes = ctx.IntSlice(_FlagSizes.Name)
	opts.RunsPerSize = ctx.Int(_FlagRuns.Name)
	opts.Logger = logger
	if ctx.IsSet(_FlagSeed.Name) {
		opts.WithSeed(ctx.Int64(_FlagSeed.Name))
	}

	s.engine, err = algoperf.NewEngine(registry, opts)
	if err != nil {
		return err
	}

	if dir := ctx.String(_FlagHistoryDir.Name); dir != "" {
		dir, err = expandPath(dir)
		if err != nil {
			return err
		}

		storeOpts := store.DefaultOptions()
		storeOpts.Logger = logger

		s.history, err = store.Open(dir, storeOpts)
		if err != nil {
			return err
		}
	}

	s.service = NewService(s.engine, s.history, logger)
	return nil
}

func (s *cliState) close() error {
	var err error
	if s.history != nil {
		err = s.history.Close()
		s.history = nil
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return err
}

func (s *cliState) runAll(ctx context.Context) ([]*algoperf.Report, error) {
	if s.local() {
		reports, err := s.engine.RunAll(ctx)
		if err != nil {
			return nil, err
		}
		if s.history != nil {
			for _, report := range reports {
				if _, err = s.history.Save(ctx, report); err != nil {
					return nil, err
				}
			}
		}
		return reports, nil
	}

	algorithms, err := s.service.Algorithms(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*algoperf.Report, 0, len(algorithms))
	for _, alg := range algorithms {
		report, err := s.service.Benchmark(ctx, alg.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *cliState) serve(ctx context.Context, listen string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	svc := WithMetrics(s.service, NewMetrics(reg))

	mux := http.NewServeMux()
	mux.Handle("/api/", NewHandler(svc, s.logger))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", listen))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// expandPath resolves a leading ~ and relative paths against the working dir.
func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

func parseHeaders(headersStr []string) (map[string]string, error) {
	headers := make(map[string]string)
	for _, s := range headersStr {
		header := strings.SplitN(s, "=", 2)
		if len(header) != 2 {
			return nil, fmt.Errorf("invalid header: %s", s)
		}

		headers[header[0]] = header[1]
	}
	return headers, nil
}

func newReporter(w io.Writer, format string) (reporters.Reporter, error) {
	switch format {
	case formatTable:
		return reporters.NewIOReporter(w), nil
	case formatCSV:
		return reporters.NewCSVReporter(w), nil
	case formatJSON:
		return reporters.NewJSONReporter(w, true), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printGrowth(w io.Writer, report *algoperf.Report) error {
	for _, g := range algoperf.GrowthFactors(report) {
		_, err := fmt.Fprintf(w, "%s -> %s: size x%.2f, time x%.2f\n",
			humanize.Comma(int64(g.FromN)), humanize.Comma(int64(g.ToN)), g.SizeRatio, g.TimeRatio)
		if err != nil {
			return err
		}
	}
	return nil
}

func printHistory(w io.Writer, runs []store.Run) error {
	for i := range runs {
		run := &runs[i]
		_, err := fmt.Fprintf(w, "run %s (%s)\n", run.ID, humanize.Time(run.Timestamp))
		if err != nil {
			return err
		}

		if err = reporters.NewIOReporter(w).Report([]*algoperf.Report{&run.Report}); err != nil {
			return err
		}
	}
	return nil
}

func printComparison(w io.Writer, prev, curr *store.Run) error {
	_, err := fmt.Fprintf(w, "%s: %s vs %s\n",
		curr.Report.AlgorithmID, humanize.Time(prev.Timestamp), humanize.Time(curr.Timestamp))
	if err != nil {
		return err
	}

	for _, c := range algoperf.Compare(&prev.Report, &curr.Report) {
		_, err = fmt.Fprintf(w, "%8s %12s %12s %+8.2f%%\n",
			humanize.Comma(int64(c.N)),
			humanize.CommafWithDigits(c.PrevTimeMs, 4),
			humanize.CommafWithDigits(c.CurrTimeMs, 4),
			c.Diff)
		if err != nil {
			return err
		}
	}
	return nil
}
