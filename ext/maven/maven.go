// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package maven implements the "mvn" resolve.Extension: Maven-procured
// coordinates whose children come from a project's POM and whose paths are
// a downloaded, cached jar.
package maven

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	mvnmodel "deps.dev/util/maven"
	"github.com/pkg/errors"
	"github.com/termie/go-shutil"

	"github.com/basisdep/basis/resolve"
)

// DefaultRepo is used when a coord and config name no repos at all.
const DefaultRepo = "https://repo1.maven.org/maven2"

// Coord is the "mvn" procurer's concrete coordinate: a Maven version
// string, resolved against one of Repos (falling back to DefaultRepo).
type Coord struct {
	resolve.BaseCoord
	Version string
	Repos   []string
}

func (c *Coord) Tag() string { return "mvn" }

func (c *Coord) WithManifest(manifest, root string) resolve.Coord {
	next := *c
	next.Mnfst = manifest
	next.RootPath = root
	return &next
}

func (c *Coord) repos() []string {
	if len(c.Repos) > 0 {
		return c.Repos
	}
	return []string{DefaultRepo}
}

// Extension implements resolve.Extension for "mvn" coords. CacheDir is
// where downloaded jars are materialized, one directory per
// group/artifact/version - mirroring a local Maven repository layout. POMs
// are read over HTTP on every CoordDeps call and are not written to disk.
type Extension struct {
	Client   *http.Client
	CacheDir string
}

// New returns a maven Extension caching artifacts beneath cacheDir.
func New(cacheDir string) *Extension {
	return &Extension{Client: http.DefaultClient, CacheDir: cacheDir}
}

func (e *Extension) Canonicalize(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.Lib, resolve.Coord, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return "", nil, errors.Errorf("maven: %s: not an mvn coord", lib)
	}
	if repos := mvnRepos(cfg); len(c.Repos) == 0 && len(repos) > 0 {
		next := *c
		next.Repos = repos
		return lib, &next, nil
	}
	return lib, c, nil
}

func (e *Extension) DepID(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.CoordID, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return "", errors.Errorf("maven: %s: not an mvn coord", lib)
	}
	return resolve.CoordID(c.Version), nil
}

func (e *Extension) ManifestType(lib resolve.Lib, coord resolve.Coord, cfg *resolve.Config) (resolve.ManifestInfo, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return resolve.ManifestInfo{}, errors.Errorf("maven: %s: not an mvn coord", lib)
	}
	return resolve.ManifestInfo{Manifest: "mvn", Root: e.artifactDir(lib, c.Version)}, nil
}

func (e *Extension) CoordDeps(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]resolve.Dep, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return nil, errors.Errorf("maven: %s: not an mvn coord", lib)
	}
	pom, err := e.fetchPOM(ctx, lib, c)
	if err != nil {
		return nil, err
	}
	deps := make([]resolve.Dep, 0, len(pom.Dependencies))
	for _, d := range pom.Dependencies {
		if skipScope(string(d.Scope)) || bool(d.Optional) {
			continue
		}
		childLib := resolve.Lib(fmt.Sprintf("%s/%s", d.GroupID, d.ArtifactID))
		deps = append(deps, resolve.Dep{
			Lib: childLib,
			Coord: &Coord{
				BaseCoord: resolve.BaseCoord{Excl: exclusionSet(d.Exclusions)},
				Version:   string(d.Version),
				Repos:     c.Repos,
			},
		})
	}
	return deps, nil
}

func (e *Extension) CoordPaths(ctx context.Context, lib resolve.Lib, coord resolve.Coord, mi resolve.ManifestInfo, cfg *resolve.Config, baseDir string) ([]string, error) {
	c, ok := coord.(*Coord)
	if !ok {
		return nil, errors.Errorf("maven: %s: not an mvn coord", lib)
	}
	jarPath, err := e.fetchJar(ctx, lib, c, baseDir)
	if err != nil {
		return nil, err
	}
	return []string{jarPath}, nil
}

func (e *Extension) CompareVersions(lib resolve.Lib, a, b resolve.Coord, cfg *resolve.Config) (int, error) {
	ca, aok := a.(*Coord)
	cb, bok := b.(*Coord)
	if !aok || !bok {
		return 0, errors.Errorf("maven: %s: not an mvn coord", lib)
	}
	va, errA := semver.NewVersion(ca.Version)
	vb, errB := semver.NewVersion(cb.Version)
	if errA != nil || errB != nil {
		// Not every Maven version string is valid semver (e.g. "1.2.0.RC1");
		// fall back to a plain string compare rather than failing the
		// resolve outright over an unparseable version.
		return strings.Compare(ca.Version, cb.Version), nil
	}
	return va.Compare(vb), nil
}

func (e *Extension) CoordSummary(lib resolve.Lib, coord resolve.Coord) string {
	c, ok := coord.(*Coord)
	if !ok {
		return string(lib)
	}
	return fmt.Sprintf("%s:%s", lib, c.Version)
}

func skipScope(scope string) bool {
	switch scope {
	case "test", "provided", "system":
		return true
	default:
		return false
	}
}

func exclusionSet(exs []mvnmodel.Exclusion) map[resolve.Lib]struct{} {
	if len(exs) == 0 {
		return nil
	}
	out := make(map[resolve.Lib]struct{}, len(exs))
	for _, ex := range exs {
		out[resolve.Lib(fmt.Sprintf("%s/%s", ex.GroupID, ex.ArtifactID))] = struct{}{}
	}
	return out
}

func mvnRepos(cfg *resolve.Config) []string {
	if cfg == nil || cfg.Extra == nil {
		return nil
	}
	v, ok := cfg.Extra["mvn/repos"]
	if !ok {
		return nil
	}
	repos, _ := v.([]string)
	return repos
}

// artifactDir is the local cache path for one (lib, version) artifact,
// laid out the way a local Maven repository would: cacheDir/group/
// artifact/version.
func (e *Extension) artifactDir(lib resolve.Lib, version string) string {
	group, artifact, _ := strings.Cut(string(lib), "/")
	return filepath.Join(e.CacheDir, group, artifact, version)
}

func (e *Extension) groupPath(groupID, artifactID, version string) string {
	return strings.Join([]string{strings.ReplaceAll(groupID, ".", "/"), artifactID, version}, "/")
}

func (e *Extension) fetchPOM(ctx context.Context, lib resolve.Lib, c *Coord) (*mvnmodel.Project, error) {
	group, artifact, _ := strings.Cut(string(lib), "/")
	gpath := e.groupPath(group, artifact, c.Version)
	var lastErr error
	for _, repo := range c.repos() {
		url := fmt.Sprintf("%s/%s/%s.pom", strings.TrimSuffix(repo, "/"), gpath, artifact+"-"+c.Version)
		body, err := e.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		var project mvnmodel.Project
		if err := xml.Unmarshal(body, &project); err != nil {
			return nil, errors.Wrapf(err, "parsing POM for %s:%s", lib, c.Version)
		}
		return &project, nil
	}
	return nil, errors.Wrapf(lastErr, "fetching POM for %s:%s", lib, c.Version)
}

func (e *Extension) fetchJar(ctx context.Context, lib resolve.Lib, c *Coord, baseDir string) (string, error) {
	group, artifact, _ := strings.Cut(string(lib), "/")
	dst := filepath.Join(baseDir, artifact+"-"+c.Version+".jar")
	if fileExists(dst) {
		return dst, nil
	}
	if err := osMkdirAll(baseDir); err != nil {
		return "", errors.Wrapf(err, "creating cache dir for %s:%s", lib, c.Version)
	}

	gpath := e.groupPath(group, artifact, c.Version)
	var lastErr error
	for _, repo := range c.repos() {
		url := fmt.Sprintf("%s/%s/%s.jar", strings.TrimSuffix(repo, "/"), gpath, artifact+"-"+c.Version)
		tmp, err := e.download(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		if _, err := shutil.Copy(tmp, dst, true); err != nil {
			return "", errors.Wrapf(err, "caching jar for %s:%s", lib, c.Version)
		}
		return dst, nil
	}
	return "", errors.Wrapf(lastErr, "fetching jar for %s:%s", lib, c.Version)
}

func (e *Extension) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: %s", url, resp.Status)
	}
	return readAll(resp.Body)
}

// download fetches url into a temp file beneath CacheDir and returns its
// path, for shutil.Copy to then place at the artifact's final cache
// location.
func (e *Extension) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := e.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("GET %s: %s", url, resp.Status)
	}
	return writeTemp(e.CacheDir, path.Base(url), resp.Body)
}

func (e *Extension) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return http.DefaultClient
}
