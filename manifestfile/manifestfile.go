// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifestfile reads the TOML deps files basis projects declare
// their libraries in - the concrete, parseable syntax standing in for the
// edn maps resolve.Config's fields model abstractly (see resolve.Config's
// doc comment). Canonicalization of shorthand lib names happens here, at
// the read boundary, never inside package resolve.
package manifestfile

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/basisdep/basis/ext/git"
	"github.com/basisdep/basis/ext/local"
	"github.com/basisdep/basis/ext/maven"
	"github.com/basisdep/basis/ext/project"
	"github.com/basisdep/basis/resolve"
)

// DefaultFileName is the deps file basis looks for when none is named
// explicitly (cmd/basis's --deps-file flag defaults to this).
const DefaultFileName = "deps.toml"

// Logger is where canonicalization deprecation warnings are written; it
// defaults to a logger matching the teacher's own cmd/dep/loggers.go
// plain-prefix style and can be overridden by callers that already have
// their own *log.Logger.
var Logger = log.New(os.Stderr, "basis: ", 0)

type rawConfig struct {
	Deps     map[string]rawCoord `toml:"deps"`
	Paths    []string            `toml:"paths"`
	Aliases  map[string]rawAlias `toml:"aliases"`
	MvnRepos []string            `toml:"mvn_repos"`
}

type rawCoord struct {
	MvnVersion  string   `toml:"mvn_version"`
	LocalRoot   string   `toml:"local_root"`
	GitURL      string   `toml:"git_url"`
	GitSHA      string   `toml:"git_sha"`
	GitRef      string   `toml:"git_ref"`
	ProjectRoot string   `toml:"project_root"`
	Exclusions  []string `toml:"exclusions"`
}

type rawAlias struct {
	ExtraDeps          map[string]rawCoord `toml:"extra_deps"`
	OverrideDeps       map[string]rawCoord `toml:"override_deps"`
	DefaultDeps        map[string]rawCoord `toml:"default_deps"`
	ClasspathOverrides map[string]string   `toml:"classpath_overrides"`
	Paths              []string            `toml:"paths"`
	ExtraPaths         []string            `toml:"extra_paths"`
	JvmOpts            []string            `toml:"jvm_opts"`
	MainOpts           []string            `toml:"main_opts"`
}

// Read parses the deps file at path into a *resolve.Config.
func Read(path string) (*resolve.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading deps file %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML deps-file content into a *resolve.Config, applying
// bare-lib-name canonicalization (spec.md §6).
func Parse(data []byte) (*resolve.Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing deps file")
	}

	cfg := &resolve.Config{
		Deps:    make(map[resolve.Lib]resolve.Coord, len(raw.Deps)),
		Paths:   raw.Paths,
		Aliases: make(map[string]*resolve.Alias, len(raw.Aliases)),
		Extra:   make(map[string]interface{}),
	}
	if len(raw.MvnRepos) > 0 {
		cfg.Extra["mvn/repos"] = raw.MvnRepos
	}

	for name, rc := range raw.Deps {
		lib := canonicalizeLib(name)
		coord, err := buildCoord(lib, rc)
		if err != nil {
			return nil, err
		}
		cfg.Deps[lib] = coord
	}

	for name, ra := range raw.Aliases {
		a, err := buildAlias(ra)
		if err != nil {
			return nil, errors.Wrapf(err, "alias %q", name)
		}
		cfg.Aliases[name] = a
	}

	return cfg, nil
}

// canonicalizeLib rewrites a bare "foo" to "foo/foo" with a deprecation
// warning, per spec.md §6. Already-qualified names pass through unchanged.
func canonicalizeLib(name string) resolve.Lib {
	if strings.Contains(name, "/") {
		return resolve.Lib(name)
	}
	Logger.Printf("deprecated: unqualified lib name %q; use %q instead", name, name+"/"+name)
	return resolve.Lib(name + "/" + name)
}

func buildCoord(lib resolve.Lib, rc rawCoord) (resolve.Coord, error) {
	excl := exclusionSet(rc.Exclusions)

	set := 0
	for _, present := range []bool{rc.MvnVersion != "", rc.LocalRoot != "", rc.GitURL != "", rc.ProjectRoot != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, &resolve.InputError{Reason: fmt.Sprintf(
			"%s: exactly one of mvn_version, local_root, git_url, project_root must be set (got %d)", lib, set)}
	}

	switch {
	case rc.MvnVersion != "":
		return &maven.Coord{
			BaseCoord: resolve.BaseCoord{Excl: excl},
			Version:   rc.MvnVersion,
		}, nil
	case rc.LocalRoot != "":
		return &local.Coord{
			BaseCoord: resolve.BaseCoord{Excl: excl},
			LocalRoot: rc.LocalRoot,
		}, nil
	case rc.GitURL != "":
		if rc.GitSHA == "" {
			return nil, &resolve.InputError{Reason: fmt.Sprintf("%s: git_url set without git_sha", lib)}
		}
		return &git.Coord{
			BaseCoord: resolve.BaseCoord{Excl: excl},
			URL:       rc.GitURL,
			SHA:       rc.GitSHA,
			Ref:       rc.GitRef,
		}, nil
	default: // rc.ProjectRoot != ""
		return &project.Coord{
			BaseCoord:   resolve.BaseCoord{Excl: excl},
			ProjectRoot: rc.ProjectRoot,
		}, nil
	}
}

func exclusionSet(names []string) map[resolve.Lib]struct{} {
	if len(names) == 0 {
		return nil
	}
	out := make(map[resolve.Lib]struct{}, len(names))
	for _, n := range names {
		out[canonicalizeLib(n)] = struct{}{}
	}
	return out
}

func buildAlias(ra rawAlias) (*resolve.Alias, error) {
	a := &resolve.Alias{
		ExtraDeps:          make(map[resolve.Lib]resolve.Coord, len(ra.ExtraDeps)),
		OverrideDeps:       make(map[resolve.Lib]resolve.Coord, len(ra.OverrideDeps)),
		DefaultDeps:        make(map[resolve.Lib]resolve.Coord, len(ra.DefaultDeps)),
		ClasspathOverrides: make(map[resolve.Lib]string, len(ra.ClasspathOverrides)),
		JvmOpts:            ra.JvmOpts,
		MainOpts:           ra.MainOpts,
	}
	for name, rc := range ra.ExtraDeps {
		lib := canonicalizeLib(name)
		c, err := buildCoord(lib, rc)
		if err != nil {
			return nil, err
		}
		a.ExtraDeps[lib] = c
	}
	for name, rc := range ra.OverrideDeps {
		lib := canonicalizeLib(name)
		c, err := buildCoord(lib, rc)
		if err != nil {
			return nil, err
		}
		a.OverrideDeps[lib] = c
	}
	for name, rc := range ra.DefaultDeps {
		lib := canonicalizeLib(name)
		c, err := buildCoord(lib, rc)
		if err != nil {
			return nil, err
		}
		a.DefaultDeps[lib] = c
	}
	for name, path := range ra.ClasspathOverrides {
		a.ClasspathOverrides[canonicalizeLib(name)] = path
	}
	a.Paths = parsePathEntries(ra.Paths)
	a.ExtraPaths = parsePathEntries(ra.ExtraPaths)
	return a, nil
}

// parsePathEntries implements the concrete-syntax stand-in for edn's
// string-vs-keyword distinction in a :paths/:extra-paths list: an entry
// beginning with ":" names another alias to chase; anything else is a
// literal filesystem root.
func parsePathEntries(raw []string) []resolve.PathEntry {
	out := make([]resolve.PathEntry, 0, len(raw))
	for _, r := range raw {
		if strings.HasPrefix(r, ":") {
			out = append(out, resolve.PathEntry{AliasRef: strings.TrimPrefix(r, ":")})
		} else {
			out = append(out, resolve.PathEntry{Literal: r})
		}
	}
	return out
}
