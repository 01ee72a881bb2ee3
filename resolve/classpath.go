// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"
	"os"
	"strings"
)

// ClasspathKey names why a classpath entry is present: either it came from
// a resolved lib's own paths, or from an alias's :paths/:extra-paths list
// (spec.md §3 "Classpath map"). Exactly one field is set.
type ClasspathKey struct {
	Lib      Lib
	AliasKey string
}

// ClasspathEntry is one row of a ClasspathMap.
type ClasspathEntry struct {
	Path string
	Key  ClasspathKey
}

// ClasspathMap is the ordered mapping spec.md §3 describes; its slice
// order is the classpath order.
type ClasspathMap []ClasspathEntry

// ClasspathArgs bundles the caller-supplied classpath inputs - spec.md §6.
type ClasspathArgs struct {
	ExtraPaths         []PathEntry
	ClasspathOverrides map[Lib]string
}

const (
	pathsAliasKey      = "paths"
	extraPathsAliasKey = "extra-paths"
)

// ApplyClasspathOverrides implements spec.md §4.8 step 1: for each lib in
// overrides, replace that lib's resolved paths with the single overriding
// path. Mutates lm in place; a lib named in overrides but absent from lm
// is ignored (nothing to override).
func ApplyClasspathOverrides(lm LibMap, overrides map[Lib]string) {
	for lib, path := range overrides {
		if entry, ok := lm[lib]; ok {
			entry.Paths = []string{path}
		}
	}
}

// buildLibPaths implements spec.md §4.8 step 2: an ordered mapping from
// filesystem path to the lib that contributed it, for every path in the
// lib-map. Libs are visited in sorted order for determinism; a lib's own
// paths are visited in the order CoordPaths returned them.
func buildLibPaths(lm LibMap) ClasspathMap {
	libs := make([]Lib, 0, len(lm))
	for lib := range lm {
		libs = append(libs, lib)
	}
	sortLibs(libs)

	var out ClasspathMap
	for _, lib := range libs {
		for _, p := range lm[lib].Paths {
			out = append(out, ClasspathEntry{Path: p, Key: ClasspathKey{Lib: lib}})
		}
	}
	return out
}

func sortLibs(libs []Lib) {
	for i := 1; i < len(libs); i++ {
		for j := i; j > 0 && libs[j-1] > libs[j]; j-- {
			libs[j-1], libs[j] = libs[j], libs[j-1]
		}
	}
}

// chaseKey implements spec.md §4.8 step 4: recursively flattens a
// :paths/:extra-paths-shaped entry list, splicing in the list accessor
// returns for any referenced alias. Each literal path is tagged with the alias key
// that was most recently entered - the synthetic top key ("paths" or
// "extra-paths") until a real alias reference is followed, after which
// that alias's own key applies to everything beneath it.
func chaseKey(entries []PathEntry, currentKey string, aliases map[string]*Alias, accessor func(*Alias) []PathEntry, visiting map[string]bool) (ClasspathMap, error) {
	var out ClasspathMap
	for _, e := range entries {
		if e.AliasRef == "" {
			out = append(out, ClasspathEntry{Path: e.Literal, Key: ClasspathKey{AliasKey: currentKey}})
			continue
		}
		if visiting[e.AliasRef] {
			return nil, &InputError{Reason: fmt.Sprintf("cyclic alias reference chasing %q", e.AliasRef)}
		}
		a, ok := aliases[e.AliasRef]
		if !ok {
			return nil, &InputError{Reason: fmt.Sprintf("unknown alias %q referenced from path entry", e.AliasRef)}
		}
		visiting[e.AliasRef] = true
		sub, err := chaseKey(accessor(a), e.AliasRef, aliases, accessor, visiting)
		delete(visiting, e.AliasRef)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// mergeClasspathMaps implements spec.md §4.8 step 5: concatenates a then
// b, keeping only the first occurrence of each path - insertion order
// defines the resulting classpath order.
func mergeClasspathMaps(a, b ClasspathMap) ClasspathMap {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make(ClasspathMap, 0, len(a)+len(b))
	for _, e := range append(append(ClasspathMap{}, a...), b...) {
		if _, ok := seen[e.Path]; ok {
			continue
		}
		seen[e.Path] = struct{}{}
		out = append(out, e)
	}
	return out
}

// JoinClasspath implements spec.md §4.8 step 6.
func JoinClasspath(cm ClasspathMap) string {
	paths := make([]string, len(cm))
	for i, e := range cm {
		paths[i] = e.Path
	}
	return strings.Join(paths, string(os.PathListSeparator))
}

// BuildClasspath runs spec.md §4.8 end to end: apply overrides, project
// the lib-map's own paths, chase the combined alias's :paths then
// :extra-paths (with args.ExtraPaths appended to whatever the alias
// carried) against the full alias registry, and merge everything into
// the final ordered ClasspathMap.
func BuildClasspath(lm LibMap, cfg *Config, combined *Alias, args ClasspathArgs) (ClasspathMap, error) {
	overrides := args.ClasspathOverrides
	if overrides == nil {
		overrides = combined.ClasspathOverrides
	}
	ApplyClasspathOverrides(lm, overrides)

	libPaths := buildLibPaths(lm)

	// Step 3: the combined alias's own :paths/:extra-paths become
	// addressable under the synthetic "paths"/"extra-paths" keys, same as
	// any other named alias a chase-key reference might name.
	aliases := make(map[string]*Alias, len(cfg.Aliases)+2)
	for k, a := range cfg.Aliases {
		aliases[k] = a
	}
	aliases[pathsAliasKey] = &Alias{Paths: combined.Paths}
	extraEntries := append(append([]PathEntry{}, combined.ExtraPaths...), args.ExtraPaths...)
	aliases[extraPathsAliasKey] = &Alias{Paths: extraEntries}

	pathsExpanded, err := chaseKey(combined.Paths, pathsAliasKey, aliases, pathsAccessor, map[string]bool{})
	if err != nil {
		return nil, err
	}
	extraPathsExpanded, err := chaseKey(extraEntries, extraPathsAliasKey, aliases, pathsAccessor, map[string]bool{})
	if err != nil {
		return nil, err
	}

	result := mergeClasspathMaps(libPaths, pathsExpanded)
	result = mergeClasspathMaps(result, extraPathsExpanded)
	return result, nil
}

// pathsAccessor lets chaseKey follow an alias reference uniformly,
// regardless of whether the original chase started from :paths or
// :extra-paths: once inside a named alias, its own Paths field is what a
// further nested reference would chase (spec.md §4.8 step 4).
func pathsAccessor(a *Alias) []PathEntry { return a.Paths }
