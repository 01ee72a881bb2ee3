// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ResolvedCoord is a lib-map entry: the selected coord for a lib, augmented
// with the libs that depend on it and (after Download) the local paths it
// resolves to - spec.md §3 "Lib map" / §4.6.
type ResolvedCoord struct {
	Coord      Coord
	Dependents []Lib
	Paths      []string
}

// LibMap is the terminal projection of a VersionMap: one entry per lib, each
// naming the coord that won selection.
type LibMap map[Lib]*ResolvedCoord

// BuildLibMap implements spec.md §4.6: for every lib with a current
// selection, project libEntry.Versions[Select] plus the set of libs that
// contributed a path to that selection. A recorded path is lib's own
// ancestry, excluding lib itself (see libEntry.Paths's doc comment), so its
// last element is the immediate parent that introduced this occurrence; a
// top-level dep's path is empty and contributes no dependent.
//
// Dependents order is not meaningful per spec.md §4.6 ("not observable but
// must be a stable sequence"); libs are sorted for determinism rather than
// left in map-iteration order.
func BuildLibMap(vm *VersionMap) LibMap {
	lm := make(LibMap, len(vm.libs))
	for lib, e := range vm.libs {
		if e.Select == "" {
			continue
		}
		coord := e.Versions[e.Select]
		var deps []Lib
		for _, p := range e.Paths[e.Select] {
			if len(p) == 0 {
				continue
			}
			deps = append(deps, p[len(p)-1])
		}
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		deps = dedupeLibs(deps)
		lm[lib] = &ResolvedCoord{Coord: coord, Dependents: deps}
	}
	return lm
}

func dedupeLibs(libs []Lib) []Lib {
	if len(libs) < 2 {
		return libs
	}
	out := libs[:1]
	for _, l := range libs[1:] {
		if l != out[len(out)-1] {
			out = append(out, l)
		}
	}
	return out
}

// Download implements spec.md §4.7: for every (lib, coord) in the lib-map,
// resolve coord-paths concurrently, bounded to threads workers. The first
// failure cancels every other in-flight and queued download and is
// returned to the caller; on success every entry's Paths field is
// populated in place.
//
// Unlike Expand, Download has no BFS structure to drive - it is a flat,
// one-round fan-out over a fixed set of libs - so it builds its own
// errgroup directly rather than going through Executor, which exists to
// carry ppath/pending bookkeeping Download has no use for.
func Download(ctx context.Context, reg *Registry, lm LibMap, cfg *Config, threads int) error {
	g, gctx := errgroup.WithContext(ctx)
	if threads > 0 {
		g.SetLimit(threads)
	}

	libs := make([]Lib, 0, len(lm))
	for lib := range lm {
		libs = append(libs, lib)
	}
	sort.Slice(libs, func(i, j int) bool { return libs[i] < libs[j] })

	var mu sync.Mutex
	for _, lib := range libs {
		lib, entry := lib, lm[lib]
		ext, err := reg.forCoord(entry.Coord)
		if err != nil {
			return errors.Wrapf(err, "downloading %s", lib)
		}
		mi := ManifestInfo{Manifest: entry.Coord.Manifest(), Root: entry.Coord.Root()}
		g.Go(func() error {
			paths, err := ext.CoordPaths(gctx, lib, entry.Coord, mi, cfg, mi.Root)
			if err != nil {
				return &ExtensionError{Lib: lib, Coord: entry.Coord, Cause: err}
			}
			mu.Lock()
			entry.Paths = paths
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
