// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project implements the "project" resolve.Extension: a nested,
// sibling manifest (spec.md §3's project `{root}`) whose own `deps` become
// this coord's children.
package project

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/basisdep/basis/resolve"
)

// Coord is the "project" procurer's coordinate: the root directory of a
// nested project manifest.
type Coord struct {
	resolve.BaseCoord
	ProjectRoot string
}

func (c *Coord) Tag() string { return "project" }

func (c *Coord) WithManifest(manifest, root string) resolve.Coord {
	next := *c
	next.Mnfst = manifest
	next.RootPath = root
	return &next
}

// ReadConfigFunc reads and merges a nested project's own manifest file(s)
// into a *resolve.Config. Extension takes this as a field, rather than
// importing manifestfile directly, to avoid an import cycle: manifestfile
// builds project.Coord values, and would otherwise need to import this
// package back.
type ReadConfigFunc func(root string) (*resolve.Config, error)

// Extension implements resolve.Extension for "project" coords.
type Extension struct {
	ReadConfig ReadConfigFunc
}

func New(readConfig ReadConfigFunc) *Extension {
	return &Extension{ReadConfig: readConfig}
}

func (e *Extension) Canonicalize(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.Lib, resolve.Coord, error) {
	return lib, coord, nil
}

func (e *Extension) DepID(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.CoordID, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return "", errors.Errorf("project: %s: not a project coord", lib)
	}
	return resolve.CoordID(c.ProjectRoot), nil
}

func (e *Extension) ManifestType(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.ManifestInfo, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return resolve.ManifestInfo{}, errors.Errorf("project: %s: not a project coord", lib)
	}
	return resolve.ManifestInfo{Manifest: "project", Root: c.ProjectRoot}, nil
}

func (e *Extension) CoordDeps(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]resolve.Dep, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return nil, errors.Errorf("project: %s: not a project coord", lib)
	}
	if e.ReadConfig == nil {
		return nil, errors.Errorf("project: %s: no ReadConfig configured", lib)
	}
	nested, err := e.ReadConfig(c.ProjectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, "reading nested project at %s", c.ProjectRoot)
	}
	libs := make([]resolve.Lib, 0, len(nested.Deps))
	for depLib := range nested.Deps {
		libs = append(libs, depLib)
	}
	sort.Slice(libs, func(i, j int) bool { return libs[i] < libs[j] })

	deps := make([]resolve.Dep, 0, len(libs))
	for _, depLib := range libs {
		deps = append(deps, resolve.Dep{Lib: depLib, Coord: nested.Deps[depLib]})
	}
	return deps, nil
}

func (e *Extension) CoordPaths(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]string, error) {
	return []string{baseDir}, nil
}

func (e *Extension) CompareVersions(lib resolve.Lib, a, b resolve.Coord, cfg *resolve.Config) (int, error) {
	ca, aok := a.(*Coord)
	cb, bok := b.(*Coord)
	if !aok || !bok {
		return 0, errors.Errorf("project: %s: not a project coord", lib)
	}
	if ca.ProjectRoot == cb.ProjectRoot {
		return 0, nil
	}
	return 1, nil
}

func (e *Extension) CoordSummary(lib resolve.Lib, coord resolve.Coord) string {
	c, ok := coord.(*Coord)
	if !ok {
		return string(lib)
	}
	return c.ProjectRoot
}
