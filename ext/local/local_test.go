// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basisdep/basis/resolve"
)

func TestDepIDIsTheRoot(t *testing.T) {
	ext := Extension{}
	c := &Coord{LocalRoot: "/tmp/somewhere"}
	id, err := ext.DepID("a/a", c, nil)
	require.NoError(t, err)
	assert.Equal(t, resolve.CoordID("/tmp/somewhere"), id)
}

func TestDepIDRejectsForeignCoord(t *testing.T) {
	ext := Extension{}
	_, err := ext.DepID("a/a", &fakeForeignCoord{}, nil)
	assert.Error(t, err)
}

func TestCoordDepsAlwaysEmpty(t *testing.T) {
	ext := Extension{}
	deps, err := ext.CoordDeps(context.Background(), "a/a", &Coord{LocalRoot: "/tmp"}, resolve.ManifestInfo{}, nil, "")
	require.NoError(t, err)
	assert.Nil(t, deps)
}

func TestCoordPathsConfirmsDirExists(t *testing.T) {
	dir := t.TempDir()
	ext := Extension{}
	paths, err := ext.CoordPaths(context.Background(), "a/a", &Coord{LocalRoot: dir}, resolve.ManifestInfo{}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, paths)
}

func TestCoordPathsErrorsOnMissingDir(t *testing.T) {
	ext := Extension{}
	_, err := ext.CoordPaths(context.Background(), "a/a", &Coord{LocalRoot: "/does/not/exist/at/all"}, resolve.ManifestInfo{}, nil, "")
	assert.Error(t, err)
}

func TestCompareVersionsSameRootEqual(t *testing.T) {
	ext := Extension{}
	cmp, err := ext.CompareVersions("a/a", &Coord{LocalRoot: "/x"}, &Coord{LocalRoot: "/x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestCompareVersionsDifferentRootPrefersLater(t *testing.T) {
	ext := Extension{}
	cmp, err := ext.CompareVersions("a/a", &Coord{LocalRoot: "/x"}, &Coord{LocalRoot: "/y"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)
}

type fakeForeignCoord struct {
	resolve.BaseCoord
}

func (fakeForeignCoord) Tag() string                                    { return "fake" }
func (c *fakeForeignCoord) WithManifest(manifest, root string) resolve.Coord { return c }
