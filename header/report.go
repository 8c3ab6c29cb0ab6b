// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
)

// Status is the outcome of processing a single file.
type Status int

const (
	// StatusAdded means the header was written.
	StatusAdded Status = iota
	// StatusPresent means the file already starts with the header.
	StatusPresent
	// StatusWouldAdd means the header is missing, but the writer did not
	// change the file.
	StatusWouldAdd
	// StatusNotText means the file is not text and was left alone.
	StatusNotText
	// StatusFailed means reading or writing the file failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusPresent:
		return "present"
	case StatusWouldAdd:
		return "would-add"
	case StatusNotText:
		return "not-text"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result describes what happened to one file.
type Result struct {
	Path   string
	Status Status
	// Err is set for StatusNotText and StatusFailed.
	Err error
}

// String returns the status line printed for r.
func (r Result) String() string {
	switch r.Status {
	case StatusAdded:
		return "✓ Added to: " + r.Path
	case StatusPresent:
		return "✓ Already has header: " + r.Path
	case StatusWouldAdd:
		return "• Would add to: " + r.Path
	case StatusNotText:
		return "✗ Skipped non-text file: " + r.Path
	default:
		return fmt.Sprintf("✗ %s: %v", r.Path, r.Err)
	}
}

// Report collects the results of an [Insert] run.
type Report struct {
	// Results holds one entry per matched file, sorted by path.
	Results []Result
}

func (r *Report) add(res Result) { r.Results = append(r.Results, res) }

func (r *Report) sort() {
	slices.SortStableFunc(r.Results, func(a, b Result) int { return cmp.Compare(a.Path, b.Path) })
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	var n int
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Changed reports whether any file got, or would get, a header.
func (r *Report) Changed() bool {
	return r.Count(StatusAdded) > 0 || r.Count(StatusWouldAdd) > 0
}

// Err joins the errors of all failed files. Files that are not text do not
// count as failures.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}
