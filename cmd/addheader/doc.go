// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Addheader adds a license header to source files.

It recursively walks a directory (the current one by default) and prepends a
license comment to every file whose name ends with a known extension, using
the comment syntax of that extension. Files that already start with the
header are left alone, so running it again changes nothing. Files that are
not UTF-8 text are reported and skipped.

Usage:

	addheader [flags]
	addheader [flags] <extension> <header_file>

Without arguments, the built-in license is added to .html, .js, .css, .py,
.java, .cpp, .c, .h and .hpp files, skipping images, minified bundles and
the .git directory.

With two arguments, the full content of header_file is added to files
ending with extension only. The leading dot of extension is optional.

The -config flag reads the configuration from a txtar archive instead. It
must contain:

  - license.txt: the license text.
  - config.yaml: the comment formats and, optionally, skip lists:

	formats:
	  .go: "// %s\n\n"
	  .py: "# %s\n\n"
	skip: [".pb.go"]
	ignore: ["vendor/**"]
	skip_dirs: [".git"]

Each format must contain exactly one %s, which receives the license text.
When several extensions match a file name, the longest one wins.

One line is printed per matched file. The exit status is non-zero if any
file could not be processed, or, with -check, if any file lacks the header.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/addheader/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
