// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/theckman/go-flock"
)

// Session is the per-CalcBasis-call scope spec.md §5/§9 describes: a file
// lock guards the shared download cache directory against concurrent basis
// invocations - mirroring the teacher's project_manager.go lock, but held
// for the call's duration rather than via a chdir.
//
// Cache is a memoization map for the session's lifetime. The core never
// reads or writes it, and CalcBasis does not hand the Session to any
// Extension, so no extension in this module uses it.
type Session struct {
	Cache sync.Map

	lock *flock.Flock
}

// OpenSession acquires an advisory lock on cacheDir (creating the lock
// file if necessary) and returns a Session scoped to it. The caller must
// Close the session when the basis calculation completes, successfully or
// not.
func OpenSession(cacheDir string) (*Session, error) {
	lockPath := cacheDir + ".lock"
	fl := flock.NewFlock(lockPath)
	if err := fl.Lock(); err != nil {
		return nil, errors.Wrapf(err, "locking download cache %s", cacheDir)
	}
	return &Session{lock: fl}, nil
}

// Close releases the session's cache-directory lock.
func (s *Session) Close() error {
	return s.lock.Unlock()
}
