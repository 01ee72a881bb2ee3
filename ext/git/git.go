// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package git implements the "git" resolve.Extension: coords identified
// by a repository URL and a commit sha (optionally named by a tag), clone/
// checkout backed by Masterminds/vcs.
package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"

	"github.com/basisdep/basis/resolve"
)

// Coord is the "git" procurer's coordinate: a repo URL pinned to a commit
// sha, optionally recording the tag it was resolved from (spec.md §3's
// git `{url, sha, tag}`).
type Coord struct {
	resolve.BaseCoord
	URL string
	SHA string
	Ref string // the tag or branch name the sha was resolved from, if any
}

func (c *Coord) Tag() string { return "git" }

func (c *Coord) WithManifest(manifest, root string) resolve.Coord {
	next := *c
	next.Mnfst = manifest
	next.RootPath = root
	return &next
}

// Extension implements resolve.Extension for "git" coords. CacheDir holds
// one checkout per (URL, sha).
type Extension struct {
	CacheDir string
}

func New(cacheDir string) *Extension { return &Extension{CacheDir: cacheDir} }

func (e *Extension) Canonicalize(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.Lib, resolve.Coord, error) {
	return lib, coord, nil
}

func (e *Extension) DepID(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.CoordID, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return "", errors.Errorf("git: %s: not a git coord", lib)
	}
	return resolve.CoordID(c.SHA), nil
}

func (e *Extension) ManifestType(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.ManifestInfo, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return resolve.ManifestInfo{}, errors.Errorf("git: %s: not a git coord", lib)
	}
	return resolve.ManifestInfo{Manifest: "git", Root: e.checkoutDir(lib, c)}, nil
}

// CoordDeps treats the checked-out repo as a nested project: it has no
// children of its own unless a nested manifest is present, which is
// ext/project's concern, not git's - a bare git coord contributes only
// its own checkout path to the classpath.
func (e *Extension) CoordDeps(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]resolve.Dep, error) {
	return nil, nil
}

func (e *Extension) CoordPaths(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]string, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return nil, errors.Errorf("git: %s: not a git coord", lib)
	}
	if err := e.checkout(c, baseDir); err != nil {
		return nil, errors.Wrapf(err, "checking out %s", lib)
	}
	return []string{baseDir}, nil
}

// CompareVersions has no temporal ordering to apply to two arbitrary
// commits - the newest pinned coord in the graph wins only if it is
// exactly the current selection; otherwise the later-visited one wins, so
// that "newer-in-the-traversal" breaks ties deterministically rather than
// guessing at commit history ancestry.
func (e *Extension) CompareVersions(lib resolve.Lib, a, b resolve.Coord, cfg *resolve.Config) (int, error) {
	ca, aok := a.(*Coord)
	cb, bok := b.(*Coord)
	if !aok || !bok {
		return 0, errors.Errorf("git: %s: not a git coord", lib)
	}
	if ca.SHA == cb.SHA {
		return 0, nil
	}
	return 1, nil
}

func (e *Extension) CoordSummary(lib resolve.Lib, coord resolve.Coord) string {
	c, ok := coord.(*Coord)
	if !ok {
		return string(lib)
	}
	if c.Ref != "" {
		return fmt.Sprintf("%s@%s (%s)", lib, c.Ref, shortSHA(c.SHA))
	}
	return fmt.Sprintf("%s@%s", lib, shortSHA(c.SHA))
}

func (e *Extension) checkoutDir(lib resolve.Lib, c *Coord) string {
	group, artifact, _ := strings.Cut(string(lib), "/")
	return filepath.Join(e.CacheDir, group, artifact, c.SHA)
}

func (e *Extension) checkout(c *Coord, dir string) error {
	repo, err := vcs.NewGitRepo(c.URL, dir)
	if err != nil {
		return err
	}
	if !repo.CheckLocal() {
		if err := repo.Get(); err != nil {
			return err
		}
	}
	return repo.UpdateVersion(c.SHA)
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
