// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// License is the license text used by [Default].
const License = `Copyright (c) 2025 Mohammad Sheraj Discover is licensed under India PSL v1. You can use this software according to the terms and conditions of the India PSL v1. You may obtain a copy of India PSL v1 at: https://github.com/abirusabil123/discover/blob/main/IndiaPSL1 THIS SOFTWARE IS PROVIDED ON AN “AS IS” BASIS, WITHOUT WARRANTIES OF ANY KIND, EITHER EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO NON-INFRINGEMENT, MERCHANTABILITY OR FIT FOR A PARTICULAR PURPOSE. See the India PSL v1 for more details.`

const (
	blockComment = "/* %s */\n\n"
	hashComment  = "# %s\n\n"
	lineComment  = "// %s\n\n"
	htmlComment  = "<!-- %s -->\n\n"
)

// defaultFormats is the extension set registered by Default.
var defaultFormats = map[string]string{
	".html": htmlComment,
	".js":   blockComment,
	".css":  blockComment,
	".py":   hashComment,
	".java": blockComment,
	".cpp":  blockComment,
	".c":    blockComment,
	".h":    blockComment,
	".hpp":  blockComment,
}

// knownFormats is every comment syntax ForExtension can pick from.
var knownFormats = func() map[string]string {
	m := maps.Clone(defaultFormats)
	maps.Copy(m, map[string]string{
		".go":    lineComment,
		".rs":    lineComment,
		".swift": lineComment,
		".kt":    blockComment,
		".kts":   blockComment,
		".ts":    blockComment,
		".tsx":   blockComment,
		".jsx":   blockComment,
		".scss":  blockComment,
		".sh":    hashComment,
		".rb":    hashComment,
		".yaml":  hashComment,
		".yml":   hashComment,
		".xml":   htmlComment,
		".vue":   htmlComment,
	})
	return m
}()

// defaultSkip keeps assets and minified bundles out of Default runs even
// when their names end in a registered extension.
var defaultSkip = []string{
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg",
	".min.js", ".min.css", ".map",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Formats:  maps.Clone(defaultFormats),
		Skip:     slices.Clone(defaultSkip),
		SkipDirs: []string{".git"},
		License:  License,
	}
}

// KnownExtensions returns the extensions [ForExtension] accepts, sorted.
func KnownExtensions() []string { return slices.Sorted(maps.Keys(knownFormats)) }

// ForExtension returns a configuration that adds license to files ending
// with ext only. A missing leading dot is added.
func ForExtension(ext, license string) (*Config, error) {
	ext = NormalizeExt(ext)
	tmpl, ok := knownFormats[ext]
	if !ok {
		return nil, invalidConfig(errors.Newf("no comment format known for extension %q (known: %s)", ext, strings.Join(KnownExtensions(), " ")))
	}
	return &Config{
		Formats:  map[string]string{ext: tmpl},
		SkipDirs: []string{".git"},
		License:  license,
	}, nil
}

// NormalizeExt adds a leading dot to ext if it lacks one.
func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
