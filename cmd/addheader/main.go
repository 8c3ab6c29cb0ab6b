// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"

	"go.astrophena.name/addheader/cli"
	"go.astrophena.name/addheader/header"
	"go.astrophena.name/addheader/logger"
)

var (
	errFilesFailed    = errors.New("some files could not be processed")
	errMissingHeaders = errors.New("some files are missing the license header")
)

func main() { cli.Main(new(app)) }

type app struct {
	dir     string
	config  string
	dry     bool
	check   bool
	jobs    int
	verbose bool

	// writer overrides the writer picked from flags.
	writer header.Writer
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.dir, "dir", ".", "Walk `dir` instead of the current directory.")
	fs.StringVar(&a.config, "config", "", "Read configuration from txtar `file`.")
	fs.BoolVar(&a.dry, "dry", false, "Print the headers that would be added, without making changes.")
	fs.BoolVar(&a.check, "check", false, "Print diffs of files missing the header and exit non-zero if there are any.")
	fs.IntVar(&a.jobs, "j", 1, "Process up to `n` files concurrently.")
	fs.BoolVar(&a.verbose, "v", false, "Enable debug logging.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if a.verbose {
		logger.LevelVar(ctx).Set(slog.LevelDebug)
	}

	cfg, err := a.loadConfig(ctx, env.Args)
	if err != nil {
		return err
	}

	opts := &header.Options{
		Jobs:   a.jobs,
		Writer: a.writer,
		Report: func(r header.Result) { fmt.Fprintln(env.Stdout, r) },
	}
	var differ *header.DiffWriter
	switch {
	case opts.Writer != nil:
	case a.check:
		differ = header.NewDiffWriter()
		opts.Writer = differ
	case a.dry:
		opts.Writer = header.DryRunWriter{Logf: env.Logf}
	}

	rep, err := header.Insert(ctx, a.dir, cfg, opts)
	if err != nil {
		return err
	}
	logger.Info(ctx, "finished",
		slog.Int("added", rep.Count(header.StatusAdded)),
		slog.Int("present", rep.Count(header.StatusPresent)),
		slog.Int("missing", rep.Count(header.StatusWouldAdd)),
		slog.Int("not_text", rep.Count(header.StatusNotText)),
		slog.Int("failed", rep.Count(header.StatusFailed)),
	)

	if differ != nil && differ.Len() > 0 {
		fmt.Fprint(env.Stdout, differ.String())
	}
	if err := rep.Err(); err != nil {
		logger.Error(ctx, "processing files", slog.Any("err", err))
		return errors.Wrapf(errFilesFailed, "%d of %d", rep.Count(header.StatusFailed), len(rep.Results))
	}
	if differ != nil && differ.Len() > 0 {
		return errors.Wrapf(errMissingHeaders, "%d of %d", differ.Len(), len(rep.Results))
	}
	return nil
}

// loadConfig picks the configuration from the invocation shape.
func (a *app) loadConfig(ctx context.Context, args []string) (*header.Config, error) {
	switch {
	case len(args) == 0 && a.config != "":
		logger.Debug(ctx, "loading config archive", slog.String("path", a.config))
		return loadArchive(a.config)
	case len(args) == 0:
		return header.Default(), nil
	case len(args) == 2 && a.config == "":
		ext, file := args[0], args[1]
		license, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(err, "reading header file")
		}
		logger.Debug(ctx, "using header file", slog.String("path", file), slog.String("ext", header.NormalizeExt(ext)))
		return header.ForExtension(ext, string(license))
	case a.config != "":
		return nil, fmt.Errorf("%w: -config takes no arguments, got %d", cli.ErrInvalidArgs, len(args))
	}
	return nil, fmt.Errorf("%w: want no arguments or <extension> <header_file>, got %d arguments", cli.ErrInvalidArgs, len(args))
}
