// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI builds a fresh root command and executes it with args, against a
// deps file naming one local-root dep so no network procurer ever runs.
func runCLI(t *testing.T, depsDir string, args ...string) (string, error) {
	t.Helper()
	libDir := filepath.Join(depsDir, "widget")
	require.NoError(t, os.MkdirAll(libDir, 0o755))

	depsPath := writeDepsFile(t, depsDir, `
[deps."widget/widget"]
local_root = "`+filepath.ToSlash(libDir)+`"
`)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{
		"--deps-file", depsPath,
		"--cache-dir", filepath.Join(depsDir, "cache"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCmdPrintsSelectedLibs(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "resolve")
	require.NoError(t, err)
	assert.Contains(t, out, "widget/widget")
}

func TestClasspathCmdPrintsAssembledClasspath(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "classpath")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "widget"))
}

func TestTreeCmdPrintsTrace(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "widget/widget")
	assert.Contains(t, out, successChar)
}

func TestResolveCmdMissingDepsFileIsError(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--deps-file", filepath.Join(dir, "nope.toml"),
		"--cache-dir", filepath.Join(dir, "cache"),
		"resolve",
	})
	err := cmd.Execute()
	require.Error(t, err)
}
