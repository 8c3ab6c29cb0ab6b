// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"go.astrophena.name/addheader/logger"
	"go.astrophena.name/addheader/syncx"
)

// Options tune an [Insert] run. The zero value processes files one by one
// and rewrites them with [AtomicWriter].
type Options struct {
	// Jobs is the number of files processed concurrently. Values below two
	// process files sequentially in walk order.
	Jobs int
	// Writer receives new file contents. Nil means AtomicWriter.
	Writer Writer
	// Report, if set, is called once per matched file as soon as it is
	// done. Calls never overlap.
	Report func(Result)
}

// Insert adds the license header described by cfg to every matching file
// under root.
//
// Failures on individual files are recorded in the returned [Report] and do
// not stop the walk. Insert returns an error only for an invalid cfg, an
// unreadable root or a cancelled ctx.
func Insert(ctx context.Context, root string, cfg *Config, opts *Options) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = new(Options)
	}
	w := opts.Writer
	if w == nil {
		w = AtomicWriter{}
	}

	in := &inserter{
		cfg:     cfg,
		match:   newMatcher(cfg.Formats),
		w:       w,
		dryRun:  isDryRun(w),
		report:  syncx.Protect(new(Report)),
		onDone:  opts.Report,
		claimed: new(syncx.Map[string, struct{}]),
	}

	var err error
	if opts.Jobs < 2 {
		err = in.walk(ctx, root, func(path string) { in.process(ctx, path) })
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Jobs)
		err = in.walk(gctx, root, func(path string) {
			g.Go(func() error {
				in.process(gctx, path)
				return nil
			})
		})
		// Workers never fail, so Wait only drains them.
		_ = g.Wait()
		if err == nil {
			err = ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	var rep *Report
	in.report.ReadAccess(func(r *Report) { rep = r })
	rep.sort()
	logger.Debug(ctx, "walk finished",
		slog.String("root", root),
		slog.Int("added", rep.Count(StatusAdded)),
		slog.Int("present", rep.Count(StatusPresent)),
		slog.Int("failed", rep.Count(StatusFailed)),
	)
	return rep, nil
}

type inserter struct {
	cfg    *Config
	match  matcher
	w      Writer
	dryRun bool

	report *syncx.Protected[*Report]
	onDone func(Result)
	// claimed holds every path handed to a worker. WalkDir yields each path
	// once and does not follow symlinks, so this only guards the
	// one-worker-per-file invariant against changes to the walk.
	claimed *syncx.Map[string, struct{}]
}

func (in *inserter) walk(ctx context.Context, root string, visit func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return errors.Wrapf(err, "walking %s", root)
			}
			in.record(Result{Path: path, Status: StatusFailed, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if path != root && (in.cfg.skipDir(d.Name()) || in.cfg.ignored(rel)) {
				logger.Debug(ctx, "skipping directory", slog.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if in.cfg.ignored(rel) {
			logger.Debug(ctx, "ignoring file", slog.String("path", path))
			return nil
		}
		if _, loaded := in.claimed.LoadOrStore(filepath.Clean(path), struct{}{}); loaded {
			return nil
		}
		visit(path)
		return nil
	})
}

// process runs the per-file algorithm on path.
func (in *inserter) process(ctx context.Context, path string) {
	if in.cfg.skipped(path) {
		logger.Debug(ctx, "skipping file", slog.String("path", path))
		return
	}
	ext, ok := in.match.match(filepath.Base(path))
	if !ok {
		return
	}
	in.record(in.apply(ctx, path, in.cfg.Header(ext)))
}

func (in *inserter) apply(ctx context.Context, path, hdr string) Result {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	content, err := decodeText(data)
	if err != nil {
		res.Status, res.Err = StatusNotText, err
		return res
	}
	if strings.HasPrefix(content, strings.TrimRight(hdr, " \t\r\n")) {
		res.Status = StatusPresent
		return res
	}

	updated := make([]byte, 0, len(hdr)+len(data))
	updated = append(updated, hdr...)
	updated = append(updated, data...)
	if err := in.w.Write(path, data, updated); err != nil {
		logger.Debug(ctx, "write failed", slog.String("path", path), slog.Any("err", err))
		res.Status, res.Err = StatusFailed, err
		return res
	}
	if in.dryRun {
		res.Status = StatusWouldAdd
	} else {
		res.Status = StatusAdded
	}
	return res
}

func (in *inserter) record(res Result) {
	in.report.WriteAccess(func(r *Report) {
		r.add(res)
		if in.onDone != nil {
			in.onDone(res)
		}
	})
}
