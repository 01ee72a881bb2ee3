// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basisdep/basis/resolve"
)

type fakeCoord struct {
	resolve.BaseCoord
}

func (fakeCoord) Tag() string                                      { return "fake" }
func (c *fakeCoord) WithManifest(manifest, root string) resolve.Coord { return c }

func TestDepIDIsTheProjectRoot(t *testing.T) {
	ext := New(nil)
	id, err := ext.DepID("a/a", &Coord{ProjectRoot: "/path/to/nested"}, nil)
	require.NoError(t, err)
	assert.Equal(t, resolve.CoordID("/path/to/nested"), id)
}

func TestCoordDepsRequiresReadConfig(t *testing.T) {
	ext := New(nil)
	_, err := ext.CoordDeps(context.Background(), "a/a", &Coord{ProjectRoot: "/x"}, resolve.ManifestInfo{}, nil, "")
	assert.Error(t, err)
}

func TestCoordDepsReadsNestedManifestInSortedOrder(t *testing.T) {
	ext := New(func(root string) (*resolve.Config, error) {
		return &resolve.Config{
			Deps: map[resolve.Lib]resolve.Coord{
				"z/z": &fakeCoord{},
				"a/a": &fakeCoord{},
			},
		}, nil
	})
	deps, err := ext.CoordDeps(context.Background(), "parent/lib", &Coord{ProjectRoot: "/nested"}, resolve.ManifestInfo{}, nil, "")
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, resolve.Lib("a/a"), deps[0].Lib)
	assert.Equal(t, resolve.Lib("z/z"), deps[1].Lib)
}

func TestCoordDepsPropagatesReadConfigError(t *testing.T) {
	ext := New(func(root string) (*resolve.Config, error) {
		return nil, assertErr
	})
	_, err := ext.CoordDeps(context.Background(), "a/a", &Coord{ProjectRoot: "/x"}, resolve.ManifestInfo{}, nil, "")
	assert.Error(t, err)
}

func TestCoordPathsIsTheBaseDir(t *testing.T) {
	ext := New(nil)
	paths, err := ext.CoordPaths(context.Background(), "a/a", &Coord{ProjectRoot: "/x"}, resolve.ManifestInfo{}, nil, "/some/base")
	require.NoError(t, err)
	assert.Equal(t, []string{"/some/base"}, paths)
}

func TestCompareVersionsSameRootEqual(t *testing.T) {
	ext := New(nil)
	cmp, err := ext.CompareVersions("a/a", &Coord{ProjectRoot: "/x"}, &Coord{ProjectRoot: "/x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

var assertErr = errTest("boom")

type errTest string

func (e errTest) Error() string { return string(e) }
