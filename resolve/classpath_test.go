// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyClasspathOverrides(t *testing.T) {
	lm := LibMap{
		"a/a": {Paths: []string{"/orig/a"}},
	}
	ApplyClasspathOverrides(lm, map[Lib]string{
		"a/a": "/override/a",
		"b/b": "/ignored", // absent from lm, no-op
	})
	assert.Equal(t, []string{"/override/a"}, lm["a/a"].Paths)
}

func TestBuildLibPathsSortedByLib(t *testing.T) {
	lm := LibMap{
		"b/b": {Paths: []string{"/b"}},
		"a/a": {Paths: []string{"/a1", "/a2"}},
	}
	cm := buildLibPaths(lm)
	require.Len(t, cm, 3)
	assert.Equal(t, "/a1", cm[0].Path)
	assert.Equal(t, "/a2", cm[1].Path)
	assert.Equal(t, "/b", cm[2].Path)
}

func TestChaseKeyLiteralTaggedWithCurrentKey(t *testing.T) {
	entries := []PathEntry{{Literal: "/x"}}
	cm, err := chaseKey(entries, "paths", map[string]*Alias{}, pathsAccessor, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, cm, 1)
	assert.Equal(t, ClasspathKey{AliasKey: "paths"}, cm[0].Key)
}

func TestChaseKeyFollowsNamedAlias(t *testing.T) {
	aliases := map[string]*Alias{
		"dev": {Paths: []PathEntry{{Literal: "/dev-src"}}},
	}
	entries := []PathEntry{{Literal: "/x"}, {AliasRef: "dev"}}
	cm, err := chaseKey(entries, "paths", aliases, pathsAccessor, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, cm, 2)
	assert.Equal(t, "/x", cm[0].Path)
	assert.Equal(t, ClasspathKey{AliasKey: "paths"}, cm[0].Key)
	assert.Equal(t, "/dev-src", cm[1].Path)
	assert.Equal(t, ClasspathKey{AliasKey: "dev"}, cm[1].Key, "a literal reached through a followed alias is tagged with that alias's own key")
}

func TestChaseKeyUnknownAliasIsError(t *testing.T) {
	entries := []PathEntry{{AliasRef: "nope"}}
	_, err := chaseKey(entries, "paths", map[string]*Alias{}, pathsAccessor, map[string]bool{})
	require.Error(t, err)
}

func TestChaseKeyCycleIsError(t *testing.T) {
	aliases := map[string]*Alias{
		"a": {Paths: []PathEntry{{AliasRef: "b"}}},
		"b": {Paths: []PathEntry{{AliasRef: "a"}}},
	}
	_, err := chaseKey(aliases["a"].Paths, "a", aliases, pathsAccessor, map[string]bool{"a": true})
	require.Error(t, err)
}

func TestMergeClasspathMapsFirstOccurrenceWins(t *testing.T) {
	a := ClasspathMap{{Path: "/x", Key: ClasspathKey{Lib: "a/a"}}}
	b := ClasspathMap{{Path: "/x", Key: ClasspathKey{Lib: "b/b"}}, {Path: "/y", Key: ClasspathKey{Lib: "b/b"}}}
	merged := mergeClasspathMaps(a, b)
	require.Len(t, merged, 2)
	assert.Equal(t, Lib("a/a"), merged[0].Key.Lib, "the first-seen entry for a duplicated path wins")
	assert.Equal(t, "/y", merged[1].Path)
}

func TestJoinClasspath(t *testing.T) {
	cm := ClasspathMap{{Path: "/a"}, {Path: "/b"}}
	got := JoinClasspath(cm)
	assert.Equal(t, "/a"+string(os.PathListSeparator)+"/b", got)
}

func TestBuildClasspathEndToEnd(t *testing.T) {
	lm := LibMap{
		"a/a": {Paths: []string{"/a"}},
	}
	cfg := &Config{
		Aliases: map[string]*Alias{
			"dev": {Paths: []PathEntry{{Literal: "/dev-src"}}},
		},
	}
	combined := &Alias{
		Paths:              []PathEntry{{AliasRef: "dev"}},
		ClasspathOverrides: map[Lib]string{},
	}
	args := ClasspathArgs{ExtraPaths: []PathEntry{{Literal: "/extra"}}}

	cm, err := BuildClasspath(lm, cfg, combined, args)
	require.NoError(t, err)

	var paths []string
	for _, e := range cm {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"/a", "/dev-src", "/extra"}, paths)
}

func TestBuildClasspathOverridesWinOverArgsDefault(t *testing.T) {
	lm := LibMap{"a/a": {Paths: []string{"/a"}}}
	cfg := &Config{}
	combined := &Alias{ClasspathOverrides: map[Lib]string{"a/a": "/from-alias"}}

	cm, err := BuildClasspath(lm, cfg, combined, ClasspathArgs{})
	require.NoError(t, err)
	require.Len(t, cm, 1)
	assert.Equal(t, "/from-alias", cm[0].Path)
}
