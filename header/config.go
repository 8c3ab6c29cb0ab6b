// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package header prepends license headers to source files.
//
// A [Config] maps file extensions to comment templates. [Insert] walks a
// directory tree and, for every file whose name ends with a registered
// extension, prepends the license text rendered through that template,
// unless the file already starts with it. Running Insert twice on the same
// tree changes nothing the second time.
package header

import (
	"cmp"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// ErrInvalidConfig marks errors returned by [Config.Validate].
var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes which files get a header and what it looks like.
type Config struct {
	// Formats maps an extension, including the leading dot, to a template
	// with exactly one %s verb that receives the license text. When several
	// extensions are suffixes of a file name, the longest one wins.
	Formats map[string]string
	// Skip lists path suffixes that are never touched. An entry without a
	// slash matches file names ("logo.png" by ".png"), an entry with one
	// matches paths ("third_party/x.js"). Skip takes precedence over
	// Formats.
	Skip []string
	// Ignore lists doublestar patterns matched against paths relative to
	// the root. Matching directories are not descended into.
	Ignore []string
	// SkipDirs lists directory names that are never descended into.
	SkipDirs []string
	// License is the license text.
	License string
}

// Validate reports every problem with c, marked with [ErrInvalidConfig].
func (c *Config) Validate() error {
	var errs []error

	if len(c.Formats) == 0 {
		errs = append(errs, errors.New("no comment formats registered"))
	}
	for _, ext := range slices.Sorted(maps.Keys(c.Formats)) {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			errs = append(errs, errors.Newf("extension %q must start with a dot", ext))
		}
		if err := checkTemplate(c.Formats[ext]); err != nil {
			errs = append(errs, errors.Wrapf(err, "format for %q", ext))
		}
	}
	if strings.TrimSpace(c.License) == "" {
		errs = append(errs, errors.New("license text is empty"))
	}
	for _, s := range c.Skip {
		if s == "" {
			errs = append(errs, errors.New("empty skip entry"))
		}
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, errors.Newf("invalid ignore pattern %q", p))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return invalidConfig(errors.Join(errs...))
}

// invalidConfig wraps err so that it matches [ErrInvalidConfig].
func invalidConfig(err error) error { return fmt.Errorf("%w: %w", ErrInvalidConfig, err) }

// InvalidConfig wraps errs so that the result matches [ErrInvalidConfig].
func InvalidConfig(errs ...error) error { return invalidConfig(errors.Join(errs...)) }

const templateProbe = "\x00license\x00"

func checkTemplate(tmpl string) error {
	out := fmt.Sprintf(tmpl, templateProbe)
	if strings.Contains(out, "%!") {
		return errors.Newf("template %q must have exactly one %%s verb", tmpl)
	}
	if n := strings.Count(out, templateProbe); n != 1 {
		return errors.Newf("template %q renders the license %d times, want once", tmpl, n)
	}
	return nil
}

// Header returns the license rendered for ext. It is empty if ext is not
// registered.
func (c *Config) Header(ext string) string {
	tmpl, ok := c.Formats[ext]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, c.License)
}

// Match returns the registered extension that applies to the file name.
func (c *Config) Match(name string) (ext string, ok bool) {
	return newMatcher(c.Formats).match(name)
}

// skipped reports whether path ends with any entry of the skip set.
func (c *Config) skipped(path string) bool {
	path = filepath.ToSlash(path)
	for _, s := range c.Skip {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// ignored reports whether rel, relative to the root, matches an Ignore
// pattern.
func (c *Config) ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range c.Ignore {
		// Patterns are validated up front.
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (c *Config) skipDir(name string) bool { return slices.Contains(c.SkipDirs, name) }

// matcher holds extensions ordered longest first, then lexically, so that
// ".hpp" is tried before ".h" and the result never depends on map order.
type matcher struct{ exts []string }

func newMatcher(formats map[string]string) matcher {
	exts := slices.Collect(maps.Keys(formats))
	slices.SortFunc(exts, func(a, b string) int {
		if n := cmp.Compare(len(b), len(a)); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
	return matcher{exts: exts}
}

func (m matcher) match(name string) (string, bool) {
	for _, ext := range m.exts {
		if strings.HasSuffix(name, ext) {
			return ext, true
		}
	}
	return "", false
}
