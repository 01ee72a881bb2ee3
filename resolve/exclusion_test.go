// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclusionSetAncestorPrefix(t *testing.T) {
	es := NewExclusionSet()
	es.add(Path{"a/a"}, map[Lib]struct{}{"b/b": {}})

	assert.True(t, es.excluded(Path{"a/a", "b/b"}, "b/b"))
	assert.True(t, es.excluded(Path{"a/a", "c/c", "b/b"}, "b/b"), "exclusion applies beneath any deeper descendant, not just a direct child")
	assert.False(t, es.excluded(Path{"a/a"}, "b/b"), "an exclusion declared at a path never applies to the path's own lib")
	assert.False(t, es.excluded(Path{"z/z", "b/b"}, "b/b"), "exclusion is scoped to the declaring ancestor's subtree only")
}

func TestExclusionSetClassifierSuffix(t *testing.T) {
	es := NewExclusionSet()
	es.add(Path{"a/a"}, map[Lib]struct{}{"b/b": {}})

	assert.True(t, es.excluded(Path{"a/a", "b/b$sources"}, "b/b$sources"), "a classifier variant shares its base lib's exclusion entry")
}

func TestExclusionSetEmpty(t *testing.T) {
	es := NewExclusionSet()
	es.add(Path{"a/a"}, nil)
	assert.False(t, es.excluded(Path{"a/a", "b/b"}, "b/b"))
}
