// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maven

import (
	"io"
	"os"
	"path/filepath"
)

// fileExists, readAll and writeTemp are plain os/io plumbing around the
// cache directory; no pack library wraps "does this file exist" or
// "download to a temp file" more directly than os itself.

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func osMkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}

func writeTemp(dir, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "tmp-"+filepath.Base(name)+"-*")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
