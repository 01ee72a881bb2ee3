// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Config is the merged manifest data passed to every Extension call. It is
// the resolve-side view of spec.md's "merged edn map": Deps/Paths/Aliases
// plus whatever procurer-scoped keys (e.g. Maven repo lists) a given
// Extension cares to read out of Extra.
type Config struct {
	Deps    map[Lib]Coord
	Paths   []string
	Aliases map[string]*Alias

	// Extra holds procurer-scoped top-level keys the core never
	// interprets itself, e.g. "mvn/repos". Extensions type-assert their
	// own keys out of it.
	Extra map[string]interface{}
}

// ManifestInfo is what Extension.ManifestType returns: the tag identifying
// how to read a coord's children, and the local filesystem root extension
// calls should treat as the ambient working directory (see §5's
// baseDir-threading requirement).
type ManifestInfo struct {
	Manifest string
	Root     string
}

// Extension is the pluggable interface the expander dispatches to by
// procurer tag. Every method is pure with respect to resolve's own state;
// CoordDeps and CoordPaths may perform network or filesystem I/O and are
// always invoked on worker goroutines (CoordDeps from the Task executor,
// CoordPaths from Download's own pool), never on the driver goroutine.
type Extension interface {
	// Canonicalize normalizes shorthand coord forms (e.g. a bare version
	// string) into the extension's full Coord representation.
	Canonicalize(lib Lib, coord Coord, cfg *Config) (Lib, Coord, error)

	// DepID returns the coord's CoordID, used for dominance comparison and
	// as the VersionMap key.
	DepID(lib Lib, coord Coord, cfg *Config) (CoordID, error)

	// ManifestType classifies how a coord's direct children should be
	// read.
	ManifestType(lib Lib, coord Coord, cfg *Config) (ManifestInfo, error)

	// CoordDeps reads the direct children of a coord. baseDir is the
	// working directory this call should operate relative to (threaded
	// explicitly per §5/§9, never via process cwd).
	CoordDeps(ctx context.Context, lib Lib, coord Coord, mi ManifestInfo, cfg *Config, baseDir string) ([]Dep, error)

	// CoordPaths procures (fetching if necessary) and returns the local
	// filesystem roots contributed by this coord.
	CoordPaths(ctx context.Context, lib Lib, coord Coord, mi ManifestInfo, cfg *Config, baseDir string) ([]string, error)

	// CompareVersions returns >0 when a dominates b, 0 when equivalent, <0
	// when b dominates. The sign convention matches spec.md §4.1.
	CompareVersions(lib Lib, a, b Coord, cfg *Config) (int, error)

	// CoordSummary renders a coord for tree/trace printing only.
	CoordSummary(lib Lib, coord Coord) string
}

// Dep is a single (Lib, Coord) child edge, as returned by
// Extension.CoordDeps.
type Dep struct {
	Lib   Lib
	Coord Coord
}

// Registry dispatches by procurer tag to a registered Extension. It carries
// no mutable state beyond the map built at construction, mirroring the
// teacher's preference for value-ish, per-call-constructed collaborators
// over package-global dispatch tables.
type Registry struct {
	mu  sync.RWMutex
	ext map[string]Extension
}

// NewRegistry returns an empty Registry. Extensions must be added with
// Register before a resolve can reference their tag.
func NewRegistry() *Registry {
	return &Registry{ext: make(map[string]Extension)}
}

// Register associates tag with ext, e.g. Register("mvn", maven.New(cacheDir)).
// Re-registering a tag overwrites the prior Extension.
func (r *Registry) Register(tag string, ext Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ext[tag] = ext
}

// Lookup returns the Extension registered for tag, or an error if none is.
func (r *Registry) Lookup(tag string) (Extension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.ext[tag]
	if !ok {
		return nil, errors.Wrap(&InputError{Reason: fmt.Sprintf("no extension registered for procurer tag %q", tag)}, "registry lookup")
	}
	return e, nil
}

// forCoord is a small convenience used throughout expander.go/libmap.go.
func (r *Registry) forCoord(c Coord) (Extension, error) {
	if c == nil {
		return nil, errors.Wrap(&InputError{Reason: "cannot dispatch a nil coord"}, "registry lookup")
	}
	return r.Lookup(c.Tag())
}
