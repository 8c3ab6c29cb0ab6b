// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/natefinch/atomic"
	"github.com/sergi/go-diff/diffmatchpatch"

	"go.astrophena.name/addheader/logger"
	"go.astrophena.name/addheader/syncx"
)

// Writer receives the new content of files that lack a header.
// Implementations must be safe for concurrent use.
type Writer interface {
	// Write replaces the content of the file at path, which is currently
	// old, with updated.
	Write(path string, old, updated []byte) error
}

// dryRunner is implemented by writers that leave files untouched.
type dryRunner interface{ DryRun() bool }

func isDryRun(w Writer) bool {
	d, ok := w.(dryRunner)
	return ok && d.DryRun()
}

// AtomicWriter replaces files through a temporary file in the same
// directory followed by a rename, keeping the original permissions. Readers
// see either the old or the new content, never a mix.
//
// Files the caller cannot open for writing are left alone, even when the
// directory would allow the rename. The rename gives the path a new inode,
// so hard links to the old file keep the old content.
type AtomicWriter struct{}

// Write implements [Writer].
func (AtomicWriter) Write(path string, _, updated []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	f.Close()
	if err := atomic.WriteFile(path, bytes.NewReader(updated)); err != nil {
		return errors.Wrap(err, "writing file")
	}
	return nil
}

// DryRunWriter logs the header that would be added instead of writing.
type DryRunWriter struct {
	Logf logger.Logf
}

// Write implements [Writer].
func (w DryRunWriter) Write(path string, old, updated []byte) error {
	hdr := updated[:len(updated)-len(old)]
	w.Logf("Would add header to file %s:\n%s", path, hdr)
	return nil
}

// DryRun implements dryRunner.
func (DryRunWriter) DryRun() bool { return true }

// DiffWriter records unified diffs for files that would change, without
// writing them.
type DiffWriter struct {
	// Context is the number of unchanged lines shown around changes.
	Context int

	differ *diffmatchpatch.DiffMatchPatch
	diffs  *syncx.Protected[*[]fileDiff]
}

type fileDiff struct {
	path string
	text string
}

// NewDiffWriter returns a [DiffWriter] showing three lines of context.
func NewDiffWriter() *DiffWriter {
	return &DiffWriter{
		Context: 3,
		differ:  diffmatchpatch.New(),
		diffs:   syncx.Protect(new([]fileDiff)),
	}
}

// Write implements [Writer].
func (w *DiffWriter) Write(path string, old, updated []byte) error {
	a, b, lines := w.differ.DiffLinesToChars(string(old), string(updated))
	diffs := w.differ.DiffCharsToLines(w.differ.DiffMain(a, b, false), lines)
	text := formatDiff(path, diffs, w.Context)
	w.diffs.WriteAccess(func(d *[]fileDiff) {
		*d = append(*d, fileDiff{path: path, text: text})
	})
	return nil
}

// DryRun implements dryRunner.
func (*DiffWriter) DryRun() bool { return true }

// Len returns the number of recorded diffs.
func (w *DiffWriter) Len() int {
	var n int
	w.diffs.ReadAccess(func(d *[]fileDiff) { n = len(*d) })
	return n
}

// String returns all recorded diffs ordered by path.
func (w *DiffWriter) String() string {
	var diffs []fileDiff
	w.diffs.ReadAccess(func(d *[]fileDiff) { diffs = slices.Clone(*d) })
	slices.SortFunc(diffs, func(a, b fileDiff) int { return cmp.Compare(a.path, b.path) })

	var sb strings.Builder
	for _, d := range diffs {
		sb.WriteString(d.text)
	}
	return sb.String()
}

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// formatDiff renders diffs in unified format, grouping changes into hunks
// with up to context unchanged lines around them.
func formatDiff(path string, diffs []diffmatchpatch.Diff, context int) string {
	var lines []diffLine
	for _, d := range diffs {
		for _, l := range splitLines(d.Text) {
			lines = append(lines, diffLine{op: d.Type, text: l})
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", path, path)
	oldLine, newLine := 1, 1
	for i := 0; i < len(lines); {
		next := i
		for next < len(lines) && lines[next].op == diffmatchpatch.DiffEqual {
			next++
		}
		if next == len(lines) {
			break
		}
		start := max(i, next-context)
		oldLine += start - i
		newLine += start - i

		// A hunk absorbs runs of unchanged lines short enough to join the
		// context of two changes.
		end := next
		for end < len(lines) {
			if lines[end].op != diffmatchpatch.DiffEqual {
				end++
				continue
			}
			k := end
			for k < len(lines) && lines[k].op == diffmatchpatch.DiffEqual {
				k++
			}
			if k == len(lines) || k-end > 2*context {
				end = min(k, end+context)
				break
			}
			end = k
		}

		var oldN, newN int
		for _, l := range lines[start:end] {
			switch l.op {
			case diffmatchpatch.DiffEqual:
				oldN++
				newN++
			case diffmatchpatch.DiffDelete:
				oldN++
			case diffmatchpatch.DiffInsert:
				newN++
			}
		}
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n", hunkRange(oldLine, oldN), hunkRange(newLine, newN))
		for _, l := range lines[start:end] {
			switch l.op {
			case diffmatchpatch.DiffEqual:
				sb.WriteByte(' ')
			case diffmatchpatch.DiffDelete:
				sb.WriteByte('-')
			case diffmatchpatch.DiffInsert:
				sb.WriteByte('+')
			}
			sb.WriteString(l.text)
			sb.WriteByte('\n')
		}
		oldLine += oldN
		newLine += newN
		i = end
	}
	return sb.String()
}

func hunkRange(start, n int) string {
	switch n {
	case 0:
		return fmt.Sprintf("%d,0", start-1)
	case 1:
		return fmt.Sprint(start)
	}
	return fmt.Sprintf("%d,%d", start, n)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
