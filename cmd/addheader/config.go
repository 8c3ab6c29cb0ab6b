// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"sigs.k8s.io/yaml"

	"go.astrophena.name/addheader/header"
	"go.astrophena.name/addheader/txtar"
)

type archiveConfig struct {
	Formats  map[string]string `json:"formats"`
	Skip     []string          `json:"skip"`
	Ignore   []string          `json:"ignore"`
	SkipDirs []string          `json:"skip_dirs"`
}

// loadArchive reads a configuration from the txtar archive at path.
func loadArchive(path string) (*header.Config, error) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	var errs []error

	license, ok := txtar.Lookup(ar, "license.txt")
	if !ok {
		errs = append(errs, errors.New("license.txt is missing"))
	}

	var ac archiveConfig
	if data, ok := txtar.Lookup(ar, "config.yaml"); !ok {
		errs = append(errs, errors.New("config.yaml is missing"))
	} else if err := yaml.UnmarshalStrict(data, &ac); err != nil {
		errs = append(errs, errors.Wrap(err, "config.yaml"))
	}

	if len(errs) > 0 {
		return nil, errors.Wrapf(header.InvalidConfig(errs...), "%s", path)
	}

	cfg := &header.Config{
		Formats:  make(map[string]string, len(ac.Formats)),
		Skip:     ac.Skip,
		Ignore:   ac.Ignore,
		SkipDirs: ac.SkipDirs,
		License:  strings.TrimSuffix(string(license), "\n"),
	}
	for ext, tmpl := range ac.Formats {
		cfg.Formats[header.NormalizeExt(ext)] = tmpl
	}
	return cfg, nil
}
