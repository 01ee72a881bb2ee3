// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"
)

// traceError is implemented by errors that know how to render themselves
// more tersely for trace output than their full Error() string.
type traceError interface {
	traceString() string
}

// InputError covers spec.md §7's "input error" kind: an unknown alias key,
// a non-map manifest section, or a nil coord with no default-dep (spec.md
// §9's Open Question - see processNode in expander.go). resolve does not
// check that a Lib is qualified.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return "bad input: " + e.Reason }

// ExtensionError wraps a failure raised by a provider (network failure,
// unresolvable coord). It is captured as a value inside a Task and
// re-surfaced on the driver goroutine by the executor.
type ExtensionError struct {
	Lib   Lib
	Coord Coord
	Cause error
}

func (e *ExtensionError) Error() string {
	if e.Coord != nil {
		return fmt.Sprintf("extension %s failed for %s@%s: %v", e.Coord.Tag(), e.Lib, e.Coord.Manifest(), e.Cause)
	}
	return fmt.Sprintf("extension failed for %s: %v", e.Lib, e.Cause)
}

func (e *ExtensionError) Unwrap() error { return e.Cause }

func (e *ExtensionError) traceString() string {
	return fmt.Sprintf("%s: %v", e.Lib, e.Cause)
}

// InvariantViolation covers spec.md §7's "invariant violation" kind: a
// missing parent selection that the include? parent-missing rule (§4.3-4)
// was supposed to have masked. Reaching this is a bug in resolve itself,
// not a user error - kept distinct from InputError/ExtensionError so
// callers can distinguish "your manifest is wrong" from "file a bug".
type InvariantViolation struct {
	Lib    Lib
	Path   Path
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation at %s beneath %v: %s", e.Lib, e.Path, e.Reason)
}

// ErrTooManyIterations is returned when the BFS expander exceeds its
// iteration cap. spec.md §7.4 notes the algorithm is expected to terminate
// because VersionMap candidates only grow and selections only move to
// strictly dominant coord-ids, but pathological or malicious inputs (a
// procurer that never stabilizes its CompareVersions ordering) should fail
// loudly rather than spin forever.
type ErrTooManyIterations struct {
	Steps int
	Cap   int
}

func (e *ErrTooManyIterations) Error() string {
	return fmt.Sprintf("expansion did not terminate after %d steps (cap %d); a procurer's CompareVersions is likely non-monotone", e.Steps, e.Cap)
}

// debugAssert panics with an InvariantViolation-shaped message when cond is
// false - the teacher's solver.go uses the same "canary" panic convention
// for should-be-impossible states (e.g. "canary - queue is empty, but flow
// indicates success"). Nothing in package resolve calls it: a missing
// parent selection is handled by include()'s parent-omitted rule (§4.3-4),
// which omits the node rather than raising an InvariantViolation.
func debugAssert(cond bool, lib Lib, path Path, reason string) {
	if !cond {
		panic(&InvariantViolation{Lib: lib, Path: path, Reason: "canary - " + reason})
	}
}
