// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDepsFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "deps.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetupLoadsConfigAndOpensSession(t *testing.T) {
	dir := t.TempDir()
	depsPath := writeDepsFile(t, dir, `
[deps."widget/widget"]
mvn_version = "1.0.0"
`)

	flags := &rootFlags{
		depsFile: depsPath,
		cacheDir: filepath.Join(dir, "cache"),
	}

	reg, cfg, sess, closer, err := setup(flags)
	require.NoError(t, err)
	require.NotNil(t, reg)
	require.NotNil(t, sess)
	defer closer()

	require.Contains(t, cfg.Deps, "widget/widget")
	_, err = os.Stat(flags.cacheDir)
	assert.NoError(t, err, "setup creates the cache dir")
}

func TestSetupMissingDepsFileIsError(t *testing.T) {
	dir := t.TempDir()
	flags := &rootFlags{
		depsFile: filepath.Join(dir, "nope.toml"),
		cacheDir: filepath.Join(dir, "cache"),
	}

	_, _, _, _, err := setup(flags)
	require.Error(t, err)
}

func TestSetupInvalidDepsFileIsError(t *testing.T) {
	dir := t.TempDir()
	depsPath := writeDepsFile(t, dir, "not valid toml [[[")

	flags := &rootFlags{
		depsFile: depsPath,
		cacheDir: filepath.Join(dir, "cache"),
	}

	_, _, _, _, err := setup(flags)
	require.Error(t, err)
}

func TestNewRootCmdRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["resolve"])
	assert.True(t, names["classpath"])
	assert.True(t, names["tree"])
	assert.True(t, names["version"])
}
