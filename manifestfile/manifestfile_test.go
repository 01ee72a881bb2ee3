// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifestfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basisdep/basis/ext/git"
	"github.com/basisdep/basis/ext/local"
	"github.com/basisdep/basis/ext/maven"
	"github.com/basisdep/basis/ext/project"
	"github.com/basisdep/basis/resolve"
)

func TestParseMavenDep(t *testing.T) {
	cfg, err := Parse([]byte(`
[deps."group/artifact"]
mvn_version = "1.2.3"
`))
	require.NoError(t, err)
	require.Contains(t, cfg.Deps, resolve.Lib("group/artifact"))
	c, ok := cfg.Deps["group/artifact"].(*maven.Coord)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", c.Version)
}

func TestParseCanonicalizesBareLibName(t *testing.T) {
	cfg, err := Parse([]byte(`
[deps.widget]
local_root = "/src/widget"
`))
	require.NoError(t, err)
	assert.Contains(t, cfg.Deps, resolve.Lib("widget/widget"))
	assert.NotContains(t, cfg.Deps, resolve.Lib("widget"))
}

func TestParseLocalDep(t *testing.T) {
	cfg, err := Parse([]byte(`
[deps."a/a"]
local_root = "/src/a"
`))
	require.NoError(t, err)
	c, ok := cfg.Deps["a/a"].(*local.Coord)
	require.True(t, ok)
	assert.Equal(t, "/src/a", c.LocalRoot)
}

func TestParseGitDep(t *testing.T) {
	cfg, err := Parse([]byte(`
[deps."a/a"]
git_url = "https://example.com/a.git"
git_sha = "deadbeef"
git_ref = "v1.0"
`))
	require.NoError(t, err)
	c, ok := cfg.Deps["a/a"].(*git.Coord)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a.git", c.URL)
	assert.Equal(t, "deadbeef", c.SHA)
	assert.Equal(t, "v1.0", c.Ref)
}

func TestParseGitDepWithoutSHAIsError(t *testing.T) {
	_, err := Parse([]byte(`
[deps."a/a"]
git_url = "https://example.com/a.git"
`))
	require.Error(t, err)
	var inputErr *resolve.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestParseProjectDep(t *testing.T) {
	cfg, err := Parse([]byte(`
[deps."a/a"]
project_root = "../sibling"
`))
	require.NoError(t, err)
	c, ok := cfg.Deps["a/a"].(*project.Coord)
	require.True(t, ok)
	assert.Equal(t, "../sibling", c.ProjectRoot)
}

func TestParseNoProcurerFieldIsError(t *testing.T) {
	_, err := Parse([]byte(`
[deps."a/a"]
`))
	require.Error(t, err)
	var inputErr *resolve.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestParseAmbiguousProcurerFieldsIsError(t *testing.T) {
	_, err := Parse([]byte(`
[deps."a/a"]
mvn_version = "1.0"
local_root = "/src/a"
`))
	require.Error(t, err)
	var inputErr *resolve.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestParseExclusionsAreCanonicalized(t *testing.T) {
	cfg, err := Parse([]byte(`
[deps."a/a"]
mvn_version = "1.0"
exclusions = ["widget", "group/other"]
`))
	require.NoError(t, err)
	c := cfg.Deps["a/a"].(*maven.Coord)
	assert.Contains(t, c.Excl, resolve.Lib("widget/widget"))
	assert.Contains(t, c.Excl, resolve.Lib("group/other"))
}

func TestParseMvnReposEndUpInExtra(t *testing.T) {
	cfg, err := Parse([]byte(`
mvn_repos = ["https://example.com/repo"]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/repo"}, cfg.Extra["mvn/repos"])
}

func TestParseTopLevelPaths(t *testing.T) {
	cfg, err := Parse([]byte(`
paths = ["src", "gen"]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "gen"}, cfg.Paths)
}

func TestParseAliasPathsWithAliasRefSigil(t *testing.T) {
	cfg, err := Parse([]byte(`
[aliases.dev]
paths = ["src/dev", ":test"]
`))
	require.NoError(t, err)
	dev := cfg.Aliases["dev"]
	require.Len(t, dev.Paths, 2)
	assert.Equal(t, "src/dev", dev.Paths[0].Literal)
	assert.Equal(t, "test", dev.Paths[1].AliasRef)
}

func TestParseAliasClasspathOverridesCanonicalized(t *testing.T) {
	cfg, err := Parse([]byte(`
[aliases.dev.classpath_overrides]
widget = "/override/widget"
`))
	require.NoError(t, err)
	assert.Equal(t, "/override/widget", cfg.Aliases["dev"].ClasspathOverrides[resolve.Lib("widget/widget")])
}

func TestParseAliasExtraDepsAndJvmOpts(t *testing.T) {
	cfg, err := Parse([]byte(`
[aliases.dev]
jvm_opts = ["-Xmx1g"]
main_opts = ["-m", "dev.core"]

[aliases.dev.extra_deps."a/a"]
mvn_version = "1.0"
`))
	require.NoError(t, err)
	dev := cfg.Aliases["dev"]
	assert.Equal(t, []string{"-Xmx1g"}, dev.JvmOpts)
	assert.Equal(t, []string{"-m", "dev.core"}, dev.MainOpts)
	assert.Contains(t, dev.ExtraDeps, resolve.Lib("a/a"))
}

func TestParseInvalidTOMLIsError(t *testing.T) {
	_, err := Parse([]byte(`not valid toml [[[`))
	require.Error(t, err)
}

func TestReadMissingFileIsError(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestReadParsesFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[deps."a/a"]
mvn_version = "1.0"
`), 0o644))
	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Deps, resolve.Lib("a/a"))
}
