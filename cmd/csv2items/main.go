// Command csv2items converts a semicolon separated CSV of base items into the
// builtin items JSON array.
//
// Usage:
//
//	csv2items data/base_items.csv --out data/builtin_items.json
//
// Known columns are id, name, rating and note; every other column becomes an
// attribute. Rows without an id get a generated "b-xxxxxxxx" id.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/builtin-items/internal/config"
	"github.com/JonMunkholm/builtin-items/internal/core"
	"github.com/JonMunkholm/builtin-items/internal/logging"
)

// exitUsage matches the status argument parsers use for bad invocations.
const exitUsage = 2

// usageError marks bad arguments or flags.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(core.ExitFailure)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command with args and returns the process exit status.
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(cfg, stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return core.ExitOK
	}

	reportError(stderr, err)

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(stderr, cmd.UsageString())
		return exitUsage
	}
	return core.ExitCode(err)
}

func newRootCmd(cfg *config.Config, stdout io.Writer) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:           "csv2items <input.csv>",
		Short:         "Convert CSV to builtin items JSON",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := logging.WithRunID(cmd.Context())
			logging.WithFields(ctx, "input", args[0]).Debug("conversion started")

			res, err := core.Convert(ctx, core.Options{
				InputPath:  args[0],
				OutputPath: out,
				SampleSize: cfg.Convert.SampleSize,
			})
			if err != nil {
				logging.FromContext(ctx).Debug("conversion failed", "error", err, "code", core.MapError(err).Code)
				return err
			}

			fmt.Fprintf(stdout, "Wrote %d items to %s\n", res.Count, res.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", cfg.Convert.OutputPath, "output JSON file")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	return cmd
}

// reportError prints err to w, with the support hint when one applies.
func reportError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(w, "ERROR: %v\n", err)
	if core.MapError(err).Code != "ERR000" {
		fmt.Fprintf(w, "  %s\n", core.FormatUserError(err))
	}
}
