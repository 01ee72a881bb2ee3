// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "fmt"

// PathEntry is one entry of an alias's Paths/ExtraPaths list - either a
// literal filesystem root, or a reference to another alias key to chase
// for further entries (spec.md §4.8 "chase-key"). Exactly one field is
// set.
type PathEntry struct {
	Literal  string
	AliasRef string
}

// Alias is the per-key-merged view of one or more alias maps - spec.md
// §4.9. ExtraDeps/OverrideDeps/DefaultDeps/ClasspathOverrides mirror the
// like-named ResolveArgs/ClasspathArgs fields; Paths/ExtraPaths/JvmOpts/
// MainOpts feed classpath assembly and (eventually) process launch.
type Alias struct {
	ExtraDeps          map[Lib]Coord
	OverrideDeps       map[Lib]Coord
	DefaultDeps        map[Lib]Coord
	ClasspathOverrides map[Lib]string
	Paths              []PathEntry
	ExtraPaths         []PathEntry
	JvmOpts            []string
	MainOpts           []string
}

func newAlias() *Alias {
	return &Alias{
		ExtraDeps:          make(map[Lib]Coord),
		OverrideDeps:       make(map[Lib]Coord),
		DefaultDeps:        make(map[Lib]Coord),
		ClasspathOverrides: make(map[Lib]string),
	}
}

// CombineAliases implements spec.md §4.9 combine-aliases: looks up each
// named alias in cfg.Aliases, in order, and folds it into a single Alias
// under the stated per-key merge rules. An alias key absent from
// cfg.Aliases is fatal, matching the "unknown alias keys are fatal"
// clause for unrecognized settings keys.
func CombineAliases(cfg *Config, aliasKeys []string) (*Alias, error) {
	combined := newAlias()
	for _, key := range aliasKeys {
		a, ok := cfg.Aliases[key]
		if !ok {
			return nil, &InputError{Reason: fmt.Sprintf("unknown alias %q", key)}
		}
		mergeAliasInto(combined, a)
	}
	return combined, nil
}

func mergeAliasInto(dst, src *Alias) {
	for lib, c := range src.ExtraDeps {
		dst.ExtraDeps[lib] = c
	}
	for lib, c := range src.OverrideDeps {
		dst.OverrideDeps[lib] = c
	}
	for lib, c := range src.DefaultDeps {
		dst.DefaultDeps[lib] = c
	}
	for lib, p := range src.ClasspathOverrides {
		dst.ClasspathOverrides[lib] = p
	}
	dst.Paths = concatDedupePaths(dst.Paths, src.Paths)
	dst.ExtraPaths = concatDedupePaths(dst.ExtraPaths, src.ExtraPaths)
	dst.JvmOpts = append(dst.JvmOpts, src.JvmOpts...)
	if len(src.MainOpts) > 0 {
		dst.MainOpts = src.MainOpts
	}
}

// concatDedupePaths implements the "paths, extra-paths" merge rule:
// ordered concatenation, then de-dup preserving first occurrence.
func concatDedupePaths(dst, src []PathEntry) []PathEntry {
	seen := make(map[PathEntry]struct{}, len(dst)+len(src))
	out := make([]PathEntry, 0, len(dst)+len(src))
	for _, p := range dst {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range src {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// MergeConfigs implements spec.md §4.9 merge-edns: folds cfgs left to
// right into a single Config. nil entries are skipped. Deps, Aliases and
// Extra are map-merged key-by-key (right wins per key); Paths, having no
// map structure of its own, is replaced wholesale by the rightmost
// non-nil occurrence - the shallow, one-level merge the spec distinguishes
// from combine-aliases' deeper per-key rules.
func MergeConfigs(cfgs ...*Config) *Config {
	out := &Config{
		Deps:    make(map[Lib]Coord),
		Aliases: make(map[string]*Alias),
		Extra:   make(map[string]interface{}),
	}
	for _, cfg := range cfgs {
		if cfg == nil {
			continue
		}
		for lib, c := range cfg.Deps {
			out.Deps[lib] = c
		}
		for key, a := range cfg.Aliases {
			out.Aliases[key] = a
		}
		for key, v := range cfg.Extra {
			out.Extra[key] = v
		}
		if cfg.Paths != nil {
			out.Paths = cfg.Paths
		}
	}
	return out
}
