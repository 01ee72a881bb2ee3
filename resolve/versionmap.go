// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// libEntry is the per-library record in a VersionMap - spec.md §3.
type libEntry struct {
	// Versions accumulates every coord ever seen for this lib, keyed by
	// CoordID. Never shrinks; a later retraction may need to re-consult a
	// coord seen earlier.
	Versions map[CoordID]Coord

	// Paths records every ancestry path through which a given CoordID was
	// introduced, so that a later retraction can restore a prior selection
	// (spec.md §4.6/§9 "tree retraction without deletion").
	Paths map[CoordID]map[string]Path

	// Select is the currently chosen CoordID for this lib. Empty until a
	// first candidate is accepted.
	Select CoordID

	// Top is true iff this lib was introduced at the empty path; a top
	// lib's Select is sticky against any transitive contribution.
	Top bool
}

func newLibEntry() *libEntry {
	return &libEntry{
		Versions: make(map[CoordID]Coord),
		Paths:    make(map[CoordID]map[string]Path),
	}
}

func (e *libEntry) recordPath(cid CoordID, path Path) {
	set := e.Paths[cid]
	if set == nil {
		set = make(map[string]Path)
		e.Paths[cid] = set
	}
	set[path.key()] = path
}

// hasPath reports whether path was ever recorded against cid.
func (e *libEntry) hasPath(cid CoordID, path Path) bool {
	set, ok := e.Paths[cid]
	if !ok {
		return false
	}
	_, ok = set[path.key()]
	return ok
}

// VersionMap is the working structure tracking, for every lib seen so far,
// its candidate coords, the paths that contributed each, and the currently
// selected coord - spec.md §3.
type VersionMap struct {
	libs map[Lib]*libEntry
}

// NewVersionMap returns an empty VersionMap.
func NewVersionMap() *VersionMap {
	return &VersionMap{libs: make(map[Lib]*libEntry)}
}

func (vm *VersionMap) entry(lib Lib) *libEntry {
	e, ok := vm.libs[lib]
	if !ok {
		e = newLibEntry()
		vm.libs[lib] = e
	}
	return e
}

// lookup returns the entry for lib without creating one, and whether it
// existed.
func (vm *VersionMap) lookup(lib Lib) (*libEntry, bool) {
	e, ok := vm.libs[lib]
	return e, ok
}

// includeReason names why include() accepted or rejected a candidate node,
// mirroring spec.md §4.3/§4.4's reason atoms; used for trace output.
type includeReason string

const (
	reasonTop           includeReason = "top"
	reasonExcluded      includeReason = "excluded"
	reasonUseTop        includeReason = "use-top"
	reasonParentOmitted includeReason = "parent-omitted"
	reasonChooseVersion includeReason = "choose-version"
	reasonNewTopDep     includeReason = "new-top-dep"
	reasonNewDep        includeReason = "new-dep"
	reasonSameVersion   includeReason = "same-version"
	reasonNewerVersion  includeReason = "newer-version"
	reasonOlderVersion  includeReason = "older-version"
)

// includeDecision is the outcome of include(): whether to include the node
// in expansion, and why - spec.md §4.3.
type includeDecision struct {
	Include bool
	Reason  includeReason
}

// include implements spec.md §4.3, applied before resolving a node's
// children. Rules are evaluated top-to-bottom and the first match wins.
func include(vm *VersionMap, lib Lib, path Path, excl *ExclusionSet) includeDecision {
	// 1. path = ∅ → top-level deps are always accepted as candidates.
	if len(path) == 0 {
		return includeDecision{Include: true, Reason: reasonTop}
	}

	// 2. Excluded beneath any prefix of path.
	if excl.excluded(path, lib) {
		return includeDecision{Include: false, Reason: reasonExcluded}
	}

	// 3. A top dep's coord wins over any transitive one.
	if e, ok := vm.lookup(lib); ok && e.Top {
		return includeDecision{Include: false, Reason: reasonUseTop}
	}

	// 4. Parent missing: the path leading here has been invalidated by a
	// later selection change (lazy GC of stale subtrees, spec.md §4.5/§9).
	parent, pp := path.parent()
	pe, ok := vm.lookup(parent)
	if !ok || pe.Select == "" || !pe.hasPath(pe.Select, pp) {
		return includeDecision{Include: false, Reason: reasonParentOmitted}
	}

	// 5. Otherwise, proceed to version selection.
	return includeDecision{Include: true, Reason: reasonChooseVersion}
}

// addAction distinguishes the top-dep seeding call from an ordinary
// candidate addition, per spec.md §4.4.
type addAction int

const (
	addOrdinary addAction = iota
	addTop
)

// addResult is the outcome of add(): whether the candidate was accepted as
// the selection, and why.
type addResult struct {
	Include bool
	Reason  includeReason
}

// add implements spec.md §4.4's add-coord/dominance rules. It always
// records coord under cid and path (so a later retraction can still find
// it), then decides whether this candidate becomes - or already is - the
// lib's selection.
func (vm *VersionMap) add(lib Lib, cid CoordID, coord Coord, path Path, action addAction, cmp func(a, b Coord) (int, error)) (addResult, error) {
	e := vm.entry(lib)
	e.Versions[cid] = coord
	e.recordPath(cid, path)

	if action == addTop {
		e.Select = cid
		e.Top = true
		return addResult{Include: true, Reason: reasonNewTopDep}, nil
	}

	if e.Select == "" {
		e.Select = cid
		return addResult{Include: true, Reason: reasonNewDep}, nil
	}

	if cid == e.Select {
		return addResult{Include: false, Reason: reasonSameVersion}, nil
	}

	cmpResult, err := cmp(coord, e.Versions[e.Select])
	if err != nil {
		return addResult{}, err
	}

	switch {
	case cmpResult > 0:
		e.Select = cid
		return addResult{Include: true, Reason: reasonNewerVersion}, nil
	default:
		return addResult{Include: false, Reason: reasonOlderVersion}, nil
	}
}
