// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve is the core dependency resolver and classpath builder.
//
// Given one or more merged manifests describing logical libraries and how
// to obtain them, resolve computes the transitive dependency graph, selects
// exactly one coordinate per library under a deterministic BFS policy, and
// assembles an ordered classpath from the materialized result. The package
// itself never talks to a network or a filesystem directly - those
// concerns live behind the Extension interface in registry.go, dispatched
// by procurer tag.
package resolve

import "strings"

// Lib is a qualified library name, "group/artifact". resolve assumes every
// Lib it sees is already qualified; unqualified-name canonicalization
// happens at the manifest-read boundary, in package manifestfile.
type Lib string

// base strips a trailing "$classifier" suffix, so that classifier variants
// of a lib share the same exclusion entry as the base lib.
func (l Lib) base() Lib {
	if i := strings.IndexByte(string(l), '$'); i >= 0 {
		return l[:i]
	}
	return l
}

// Path is the ancestry of Libs from a top-level dependency down to (but not
// including) the current one. An empty Path denotes a top dependency.
type Path []Lib

// parent returns the last element of the path and the path with that
// element removed, mirroring spec.md's "parent = last(path), pp = path -
// last".
func (p Path) parent() (Lib, Path) {
	if len(p) == 0 {
		return "", nil
	}
	return p[len(p)-1], p[:len(p)-1]
}

// key renders the path as a stable map key for ExclusionSet and the
// paths-seen bookkeeping in VersionMap.
func (p Path) key() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, l := range p {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(string(l))
	}
	return b.String()
}

func (p Path) equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func appendPath(p Path, l Lib) Path {
	np := make(Path, len(p)+1)
	copy(np, p)
	np[len(p)] = l
	return np
}

// CoordID is a procurer-determined value that canonically identifies a
// Coord instance for dominance comparison - a Maven coord's CoordID is its
// version string, a Git coord's is its resolved sha.
type CoordID string

// Coord is a polymorphic descriptor of how to obtain one instance of a
// library. Concrete coord types live in the ext/* packages; resolve treats
// them as opaque values it only ever hands back to the Extension that
// produced (or can interpret) them.
//
// Every Coord carries an optional exclusion set and, once resolved, the
// manifest tag and local root that ManifestType produced.
type Coord interface {
	// Tag identifies the procurer this coord belongs to, e.g. "mvn",
	// "local", "git", "project". It is the registry dispatch key.
	Tag() string

	// Exclusions returns the set of libs this coord asks to omit from its
	// own expansion. May be nil.
	Exclusions() map[Lib]struct{}

	// WithManifest returns a copy of the coord carrying the given manifest
	// tag and local root, as determined by Extension.ManifestType.
	WithManifest(manifest, root string) Coord

	// Manifest and Root report back what WithManifest set, or zero values
	// before resolution.
	Manifest() string
	Root() string
}

// BaseCoord is embeddable by concrete coord types in ext/* to avoid
// repeating the Manifest/Root/Exclusions bookkeeping in every procurer.
// It does not implement Tag or WithManifest itself - Tag is necessarily
// procurer-specific, and WithManifest must return the concrete outer type,
// not BaseCoord, so each procurer coord provides both of those directly.
type BaseCoord struct {
	Excl     map[Lib]struct{}
	Mnfst    string
	RootPath string
}

func (b BaseCoord) Exclusions() map[Lib]struct{} { return b.Excl }
func (b BaseCoord) Manifest() string             { return b.Mnfst }
func (b BaseCoord) Root() string                 { return b.RootPath }
