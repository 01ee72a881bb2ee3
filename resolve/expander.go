// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// defaultMaxExpanderSteps bounds the BFS loop, per spec.md §7.4: the
// algorithm is expected to terminate on its own because VersionMap
// candidates only grow and selections only move to strictly dominant
// coord-ids, but a pathological or buggy Extension (one whose
// CompareVersions isn't actually a strict order) must not be allowed to
// spin the driver forever.
const defaultMaxExpanderSteps = 200000

// ResolveArgs are the expand-time options from spec.md §6's args-map.
type ResolveArgs struct {
	ExtraDeps    map[Lib]Coord
	OverrideDeps map[Lib]Coord
	DefaultDeps  map[Lib]Coord
	Threads      int
	Trace        bool
}

// TraceEntry records one BFS step's decision, for tree/trace printing and
// for the property tests in spec.md §8 that assert on `reason`.
type TraceEntry struct {
	Path          Path
	Lib           Lib
	Coord         Coord
	UseCoord      Coord
	CoordID       CoordID
	OverrideCoord bool
	Include       bool
	Reason        includeReason
}

// TraceLog is returned by Expand, and carried on Basis.Trace, when
// ResolveArgs.Trace is set - spec.md §6's "attach to its metadata an object
// {log, vmap, exclusions}".
type TraceLog struct {
	Entries    []TraceEntry
	VMap       *VersionMap
	Exclusions *ExclusionSet
}

// node is a single BFS queue element representing a concrete library
// occurrence: its full ancestry (Path, including the lib itself as the
// last element) and the coord declared on the edge that introduced it
// (nil if the parent declared none).
type node struct {
	path  Path
	coord Coord
}

// pendingEntry is the other shape a queue element can take: a still-running
// child-fetch future, plus the ancestry of the node whose children are
// being fetched. spec.md §9 calls for modeling the queue's heterogeneous
// elements as "a tagged variant QueueItem = Path | Pending{future, ppath}"
// in a statically typed target; queueItem below is that sum type.
type pendingEntry struct {
	task  *pendingTask
	ppath Path
}

type queueItem struct {
	n    *node
	pend *pendingEntry
}

// Expander runs the breadth-first traversal described in spec.md §4.5: it
// concurrently dispatches child-dependency reads through the Registry,
// applies the include/dominance rules of §4.3/§4.4, and maintains the
// VersionMap whose ancestry invariant survives retractions. Expander is the
// sole mutator of its own vmap/exclusions/queue state and is not safe for
// concurrent use - only the single driver goroutine that calls Expand
// should touch it, exactly as the teacher's *solver is driven from one
// goroutine while its version queues and source manager run work on
// others.
type Expander struct {
	reg *Registry
	cfg *Config
	trace bool
	log   *TraceLog

	vmap *VersionMap
	excl *ExclusionSet

	q     []queueItem
	pendq []*node

	maxSteps int
}

// NewExpander builds an Expander bound to reg and cfg. Both must outlive
// the call to Expand.
func NewExpander(reg *Registry, cfg *Config) *Expander {
	return &Expander{
		reg:      reg,
		cfg:      cfg,
		vmap:     NewVersionMap(),
		excl:     NewExclusionSet(),
		maxSteps: defaultMaxExpanderSteps,
	}
}

// Expand runs the BFS to completion and returns the terminal VersionMap.
// seeds are the top-level deps (already merged from manifest deps +
// args.ExtraDeps by the caller - see basis.go's CalcBasis, which is
// responsible for spec.md §4.9's alias/basis composition).
func (ex *Expander) Expand(ctx context.Context, seeds map[Lib]Coord, args ResolveArgs) (*VersionMap, *TraceLog, error) {
	ex.trace = args.Trace
	if ex.trace {
		ex.log = &TraceLog{VMap: ex.vmap, Exclusions: ex.excl}
	}

	exec, ctx := NewExecutor(ctx, args.Threads)

	// Seed the queue with every top-level dep, in a stable order so that
	// determinism under concurrency (spec.md §9) holds independent of map
	// iteration order.
	for _, lib := range sortedLibKeys(seeds) {
		ex.q = append(ex.q, queueItem{n: &node{path: Path{lib}, coord: seeds[lib]}})
	}

	steps := 0
	for {
		steps++
		if steps > ex.maxSteps {
			_ = exec.Wait()
			return nil, nil, &ErrTooManyIterations{Steps: steps, Cap: ex.maxSteps}
		}

		nd, ok, err := ex.nextNode(exec)
		if err != nil {
			_ = exec.Wait()
			return nil, nil, err
		}
		if !ok {
			break
		}

		if err := ex.processNode(exec, nd, args); err != nil {
			_ = exec.Wait()
			return nil, nil, err
		}
	}

	// Drain the pool so no goroutine outlives this call. Errors from tasks
	// that were dropped (their owning node was ultimately omitted) are
	// deliberately discarded here - spec.md §4.5/§9: "their side-effects
	// (already-launched fetches) are benign".
	_ = exec.Wait()

	return ex.vmap, ex.log, nil
}

// nextNode implements spec.md §4.5's next-path: pendq is drained before q,
// and popping a pending element from q awaits its future, expanding the
// result into pendq before trying again.
func (ex *Expander) nextNode(exec *Executor) (*node, bool, error) {
	for {
		if len(ex.pendq) > 0 {
			nd := ex.pendq[0]
			ex.pendq = ex.pendq[1:]
			return nd, true, nil
		}

		if len(ex.q) == 0 {
			return nil, false, nil
		}

		item := ex.q[0]
		ex.q = ex.q[1:]

		if item.pend == nil {
			return item.n, true, nil
		}

		res := item.pend.task.await()
		if res.err != nil {
			return nil, false, res.err
		}

		pendq := make([]*node, 0, len(res.deps))
		for _, d := range res.deps {
			pendq = append(pendq, &node{path: appendPath(item.pend.ppath, d.Lib), coord: d.Coord})
		}
		ex.pendq = pendq
		// loop again: spec.md's next-path recurses after refilling pendq
	}
}

// processNode implements spec.md §4.5's "Processing a path".
func (ex *Expander) processNode(exec *Executor, nd *node, args ResolveArgs) error {
	lib, parents := nd.path.parent()
	if lib == "" {
		return &InputError{Reason: "empty lib in queue node"}
	}

	useCoord := resolveUseCoord(lib, nd.coord, args.OverrideDeps, args.DefaultDeps)

	dec := include(ex.vmap, lib, parents, ex.excl)
	if !dec.Include {
		ex.recordTrace(nd, useCoord, "", dec.Include, dec.Reason)
		return nil
	}

	if useCoord == nil {
		// spec.md §9's Open Question, decided: a nil coord with no
		// default-dep is an input error, not a latent dep-id/manifest-type
		// crash.
		return &InputError{Reason: fmt.Sprintf("%s has no coord and no default-dep: cannot determine how to fetch it", lib)}
	}

	ext, err := ex.reg.forCoord(useCoord)
	if err != nil {
		return &InputError{Reason: fmt.Sprintf("%s: %v", lib, err)}
	}

	mi, err := ext.ManifestType(lib, useCoord, ex.cfg)
	if err != nil {
		return &ExtensionError{Lib: lib, Coord: useCoord, Cause: err}
	}
	useCoord = useCoord.WithManifest(mi.Manifest, mi.Root)

	cid, err := ext.DepID(lib, useCoord, ex.cfg)
	if err != nil {
		return &ExtensionError{Lib: lib, Coord: useCoord, Cause: err}
	}

	task := exec.Submit(nd.path, mi.Root, func(ctx context.Context, baseDir string) ([]Dep, error) {
		deps, err := ext.CoordDeps(ctx, lib, useCoord, mi, ex.cfg, baseDir)
		if err != nil {
			return nil, &ExtensionError{Lib: lib, Coord: useCoord, Cause: err}
		}
		return canonicalizeDeps(ext, deps, ex.cfg)
	})

	action := addOrdinary
	if dec.Reason == reasonTop {
		action = addTop
	}

	cmp := func(a, b Coord) (int, error) {
		n, err := ext.CompareVersions(lib, a, b, ex.cfg)
		if err != nil {
			return 0, &ExtensionError{Lib: lib, Coord: a, Cause: err}
		}
		return n, nil
	}

	// add records parents, not nd.path: a libEntry's Paths must hold the
	// ancestry of lib itself, excluding lib, so that a descendant's later
	// hasPath(pp) check (include()'s rule 4) lines up with what was
	// recorded here one level up.
	res, err := ex.vmap.add(lib, cid, useCoord, parents, action, cmp)
	if err != nil {
		return err
	}

	ex.recordTrace(nd, useCoord, cid, res.Include, res.Reason)

	if !res.Include {
		// Per spec.md §4.5: drop the future. Its goroutine still runs to
		// completion and will be drained (uncollected) by Expand's final
		// exec.Wait(); we simply never await it here.
		return nil
	}

	if excls := useCoord.Exclusions(); len(excls) > 0 {
		ex.excl.add(nd.path, excls)
	}

	ex.q = append(ex.q, queueItem{pend: &pendingEntry{task: task, ppath: nd.path}})
	return nil
}

// resolveUseCoord implements spec.md §4.5's precedence: override-deps[lib]
// > coord > default-deps[lib].
func resolveUseCoord(lib Lib, coord Coord, overrides, defaults map[Lib]Coord) Coord {
	if overrides != nil {
		if c, ok := overrides[lib]; ok {
			return c
		}
	}
	if coord != nil {
		return coord
	}
	if defaults != nil {
		if c, ok := defaults[lib]; ok {
			return c
		}
	}
	return nil
}

// canonicalizeDeps applies Extension.Canonicalize to every child dep read
// from a manifest, per spec.md §4.5 step 2 ("canonicalize-deps").
func canonicalizeDeps(ext Extension, deps []Dep, cfg *Config) ([]Dep, error) {
	out := make([]Dep, len(deps))
	for i, d := range deps {
		lib, coord, err := ext.Canonicalize(d.Lib, d.Coord, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "canonicalizing %s", d.Lib)
		}
		out[i] = Dep{Lib: lib, Coord: coord}
	}
	return out, nil
}

// recordTrace appends a TraceEntry when tracing is enabled.
func (ex *Expander) recordTrace(nd *node, useCoord Coord, cid CoordID, include bool, reason includeReason) {
	if !ex.trace {
		return
	}
	lib, _ := nd.path.parent()
	ex.log.Entries = append(ex.log.Entries, TraceEntry{
		Path:     nd.path,
		Lib:      lib,
		Coord:    nd.coord,
		UseCoord: useCoord,
		CoordID:  cid,
		Include:  include,
		Reason:   reason,
	})
}

func sortedLibKeys(m map[Lib]Coord) []Lib {
	out := make([]Lib, 0, len(m))
	for l := range m {
		out = append(out, l)
	}
	// Simple insertion sort: seed lists are small (top-level deps), and we
	// want a total order that doesn't depend on map iteration, not
	// necessarily the fastest sort available.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
