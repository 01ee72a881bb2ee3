// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local implements the "local" resolve.Extension: a coord naming
// a pre-existing directory on disk, with no children of its own.
package local

import (
	"context"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"

	"github.com/basisdep/basis/resolve"
)

// Coord is the "local" procurer's coordinate: an existing directory,
// trusted as-is (spec.md §3's local `{root}`).
type Coord struct {
	resolve.BaseCoord
	LocalRoot string
}

func (c *Coord) Tag() string { return "local" }

func (c *Coord) WithManifest(manifest, root string) resolve.Coord {
	next := *c
	next.Mnfst = manifest
	next.RootPath = root
	return &next
}

// Extension implements resolve.Extension for "local" coords.
type Extension struct{}

func (Extension) Canonicalize(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.Lib, resolve.Coord, error) {
	return lib, coord, nil
}

// DepID is the local root itself: two local coords are the same instance
// iff they name the same directory.
func (Extension) DepID(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.CoordID, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return "", errors.Errorf("local: %s: not a local coord", lib)
	}
	return resolve.CoordID(c.LocalRoot), nil
}

func (Extension) ManifestType(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.ManifestInfo, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return resolve.ManifestInfo{}, errors.Errorf("local: %s: not a local coord", lib)
	}
	return resolve.ManifestInfo{Manifest: "local", Root: c.LocalRoot}, nil
}

// CoordDeps is always empty: a local coord has no manifest to read
// children from.
func (Extension) CoordDeps(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]resolve.Dep, error) {
	return nil, nil
}

// CoordPaths confirms the root is a real, readable directory and returns
// it unchanged - a local coord is never fetched or cached.
func (Extension) CoordPaths(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]string, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return nil, errors.Errorf("local: %s: not a local coord", lib)
	}
	if err := checkDir(c.LocalRoot); err != nil {
		return nil, errors.Wrapf(err, "local root for %s", lib)
	}
	return []string{c.LocalRoot}, nil
}

// CompareVersions: local coords never have more than one candidate per
// lib in practice (the root is the version), but dominance still needs an
// order; a later-selected root wins, matching how any other non-ordered
// coord type would be forced to make a choice.
func (Extension) CompareVersions(lib resolve.Lib, a, b resolve.Coord, cfg *resolve.Config) (int, error) {
	ca, aok := a.(*Coord)
	cb, bok := b.(*Coord)
	if !aok || !bok {
		return 0, errors.Errorf("local: %s: not a local coord", lib)
	}
	switch {
	case ca.LocalRoot == cb.LocalRoot:
		return 0, nil
	default:
		return 1, nil
	}
}

func (Extension) CoordSummary(lib resolve.Lib, coord resolve.Coord) string {
	c, ok := coord.(*Coord)
	if !ok {
		return string(lib)
	}
	return c.LocalRoot
}

// checkDir confirms root names a walkable directory, using godirwalk
// rather than a bare os.Stat so that a root which exists but isn't
// readable (permission, broken symlink chain) surfaces the same walk
// error a real classpath traversal would hit later. The callback stops
// the walk as soon as the root node itself has been visited - checkDir
// only needs to know the root is reachable, not enumerate its contents.
func checkDir(root string) error {
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(_ string, _ *godirwalk.Dirent) error {
			return errStopAfterRoot
		},
	})
	// Walk wraps callback errors (see its WalkFunc-wrapping in
	// karrick/godirwalk), so compare against the unwrapped cause.
	if errors.Cause(err) == errStopAfterRoot {
		return nil
	}
	return err
}

var errStopAfterRoot = errors.New("local: stop after root")
