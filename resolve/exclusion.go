// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// ExclusionSet is a mapping from path to the set of libs excluded from
// expansion *beneath* that path - spec.md §4.2. It is built incrementally
// by the expander as it processes coords carrying an Exclusions set, and
// consulted by include() before a node's children are considered.
type ExclusionSet struct {
	byPath map[string]map[Lib]struct{}
}

// NewExclusionSet returns an empty ExclusionSet.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{byPath: make(map[string]map[Lib]struct{})}
}

// add records libs as excluded from expansion beneath path (not at path
// itself).
func (es *ExclusionSet) add(path Path, libs map[Lib]struct{}) {
	if len(libs) == 0 {
		return
	}
	k := path.key()
	set := es.byPath[k]
	if set == nil {
		set = make(map[Lib]struct{}, len(libs))
		es.byPath[k] = set
	}
	for l := range libs {
		set[l] = struct{}{}
	}
}

// excluded reports whether lib is excluded beneath path, by successively
// popping the last element of path and checking each prefix (including
// path itself), per spec.md §4.2. Classifier suffixes ("$classifier") are
// stripped before lookup so variants share an exclusion entry with the base
// lib.
func (es *ExclusionSet) excluded(path Path, lib Lib) bool {
	base := lib.base()
	for {
		if set, ok := es.byPath[path.key()]; ok {
			if _, excl := set[base]; excl {
				return true
			}
		}
		if len(path) == 0 {
			return false
		}
		_, path = path.parent()
	}
}
