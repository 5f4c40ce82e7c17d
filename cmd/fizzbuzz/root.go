package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/boundary"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/format"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/observe"
)

// thresholdEnv overrides the default parallel threshold when --threshold is
// not given.
const thresholdEnv = "FIZZBUZZ_THRESHOLD"

type options struct {
	rangeSpec string
	payload   string
	threshold int
	workers   int
	chunkSize int
	sep       string
	lines     bool
	output    string
	logLevel  string
	metrics   bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "fizzbuzz [numbers...]",
		Short: "Print the fizzbuzz answer for numbers and ranges",
		Long: `Print the fizzbuzz answer for one number, a list of numbers, or a range.

A single number prints a single answer; several numbers, a range or a JSON
array print one answer per value, in input order. Large batches are split
across CPU cores. Put negative numbers after "--".`,
		Example: `  fizzbuzz 15
  fizzbuzz 1 2 3 4 5
  fizzbuzz -- -3 -5
  fizzbuzz --range 1:101 --lines
  fizzbuzz --json '{"start": 15, "stop": 0, "step": -3}'
  echo '[3, 5, 15]' | fizzbuzz --json -`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.rangeSpec, "range", "", "classify the range start:stop[:step] (stop is exclusive)")
	f.StringVar(&opts.payload, "json", "", `classify a JSON payload: number, array, or {"start","stop","step"}; "-" reads stdin`)
	f.IntVar(&opts.threshold, "threshold", batch.DefaultThreshold, "batch size from which work is split across workers (overrides "+thresholdEnv+")")
	f.IntVar(&opts.workers, "workers", 0, "worker pool size for large batches (0 = number of CPUs)")
	f.IntVar(&opts.chunkSize, "chunk-size", 0, "values per chunk for large batches (0 = automatic)")
	f.StringVar(&opts.sep, "sep", format.DefaultSeparator, "separator between answers")
	f.BoolVar(&opts.lines, "lines", false, "print one answer per line")
	f.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.BoolVar(&opts.metrics, "metrics", false, "print batch metrics to stderr")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("%w: unknown output format %q", core.ErrInvalidArgument, opts.output)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return err
	}
	threshold, err := resolveThreshold(cmd, opts)
	if err != nil {
		return err
	}
	arg, err := parseInput(cmd.InOrStdin(), args, opts)
	if err != nil {
		return err
	}

	p := batch.New(
		batch.WithThreshold(threshold),
		batch.WithWorkers(opts.workers),
		batch.WithChunkSize(opts.chunkSize),
	)
	ctx := batch.WithHooks(cmd.Context(), observe.Log(logger))
	var metrics *observe.LiveMetrics
	if opts.metrics {
		ctx, metrics = observe.WithLiveMetrics(ctx)
	}

	reply, err := boundary.Caller{Processor: p, Logger: logger}.Call(ctx, arg)
	if err != nil {
		return err
	}
	if err := render(cmd.OutOrStdout(), reply, opts); err != nil {
		return err
	}
	if metrics != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "batches=%d sequential=%d parallel=%d items=%d chunks=%d busy=%s\n",
			metrics.Batches(), metrics.Sequential(), metrics.Parallel(),
			metrics.Items(), metrics.Chunks(), metrics.Busy())
	}
	return nil
}

// newLogger returns a text logger on w tagged with a fresh run id.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", core.ErrInvalidArgument, level)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With(slog.String("run_id", uuid.NewString())), nil
}

// resolveThreshold returns the --threshold flag when set, then the
// FIZZBUZZ_THRESHOLD environment variable, then the default.
func resolveThreshold(cmd *cobra.Command, opts *options) (int, error) {
	if cmd.Flags().Changed("threshold") {
		return opts.threshold, nil
	}
	v, ok := os.LookupEnv(thresholdEnv)
	if !ok || v == "" {
		return batch.DefaultThreshold, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", core.ErrInvalidArgument, thresholdEnv, v)
	}
	return n, nil
}

// parseInput builds the argument from exactly one of: positional numbers,
// --range, or --json.
func parseInput(stdin io.Reader, args []string, opts *options) (boundary.Arg, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, opts.rangeSpec != "", opts.payload != ""} {
		if set {
			sources++
		}
	}
	switch sources {
	case 0:
		return boundary.Arg{}, fmt.Errorf("%w: nothing to classify; pass numbers, --range or --json", core.ErrInvalidArgument)
	case 1:
	default:
		return boundary.Arg{}, fmt.Errorf("%w: pass only one of numbers, --range or --json", core.ErrInvalidArgument)
	}

	switch {
	case opts.rangeSpec != "":
		return parseRange(opts.rangeSpec)
	case opts.payload != "":
		data := []byte(opts.payload)
		if opts.payload == "-" {
			var err error
			if data, err = io.ReadAll(stdin); err != nil {
				return boundary.Arg{}, fmt.Errorf("read stdin: %w", err)
			}
		}
		return boundary.DecodeJSON(data)
	}

	values := make([]any, len(args))
	for i, s := range args {
		v, err := parseNumber(s)
		if err != nil {
			return boundary.Arg{}, err
		}
		values[i] = v
	}
	if len(values) == 1 {
		return boundary.Decode(values[0])
	}
	return boundary.Decode(values)
}

// parseNumber reads an integer exactly, falling back to a big integer and
// then to a float.
func parseNumber(s string) (any, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if b, ok := new(big.Int).SetString(s, 10); ok {
		return b, nil
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return x, nil
	}
	return nil, &core.TypeMismatchError{Got: strconv.Quote(s), Want: "number"}
}

func parseRange(s string) (boundary.Arg, error) {
	mismatch := &core.TypeMismatchError{Got: "range " + strconv.Quote(s), Want: "start:stop[:step]"}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return boundary.Arg{}, mismatch
	}
	bounds := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return boundary.Arg{}, mismatch
		}
		bounds[i] = n
	}
	return boundary.SliceArg(bounds[0], bounds[1], bounds[2:]...), nil
}

func render(w io.Writer, reply boundary.Reply, opts *options) error {
	if opts.output == "json" {
		return json.NewEncoder(w).Encode(reply)
	}

	if !reply.IsList {
		_, err := fmt.Fprintln(w, reply.Scalar)
		return err
	}
	if opts.lines {
		for _, s := range reply.List {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(reply.List, opts.sep))
	return err
}
