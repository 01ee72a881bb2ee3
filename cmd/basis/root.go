// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/basisdep/basis/ext/git"
	"github.com/basisdep/basis/ext/local"
	"github.com/basisdep/basis/ext/maven"
	"github.com/basisdep/basis/ext/project"
	"github.com/basisdep/basis/manifestfile"
	"github.com/basisdep/basis/resolve"
)

// rootFlags are the flags shared by every subcommand, mirroring the
// teacher's global -v flag threaded into every command.Run call in
// cmd/dep/main.go, generalized here to cobra's persistent flags.
type rootFlags struct {
	depsFile string
	cacheDir string
	threads  int
	verbose  bool
}

var outLogger = log.New(os.Stdout, "", 0)
var errLogger = log.New(os.Stderr, "basis: ", 0)

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "basis",
		Short:         "Resolve deps.toml manifests into classpaths",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.depsFile, "deps-file", manifestfile.DefaultFileName, "path to the deps file")
	cmd.PersistentFlags().StringVar(&flags.cacheDir, "cache-dir", defaultCacheDir(), "directory for downloaded/cached artifacts")
	cmd.PersistentFlags().IntVar(&flags.threads, "threads", 0, "max concurrent fetches (0 = unbounded)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")

	cmd.AddCommand(newResolveCmd(flags))
	cmd.AddCommand(newClasspathCmd(flags))
	cmd.AddCommand(newTreeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".basis-cache")
	}
	return filepath.Join(dir, "basis")
}

// setup builds the Registry, loads cfg from flags.depsFile, and opens a
// Session scoped to the returned closer - the caller must defer it.
func setup(flags *rootFlags) (*resolve.Registry, *resolve.Config, *resolve.Session, func(), error) {
	reg := resolve.NewRegistry()
	reg.Register("mvn", maven.New(filepath.Join(flags.cacheDir, "mvn")))
	reg.Register("local", &local.Extension{})
	reg.Register("git", git.New(filepath.Join(flags.cacheDir, "git")))
	reg.Register("project", project.New(func(root string) (*resolve.Config, error) {
		return manifestfile.Read(filepath.Join(root, manifestfile.DefaultFileName))
	}))

	cfg, err := manifestfile.Read(flags.depsFile)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "loading %s", flags.depsFile)
	}
	if flags.verbose {
		outLogger.Printf("loaded %d top-level deps from %s", len(cfg.Deps), flags.depsFile)
	}

	if err := os.MkdirAll(flags.cacheDir, 0o755); err != nil {
		return nil, nil, nil, nil, errors.Wrapf(err, "creating cache dir %s", flags.cacheDir)
	}
	sess, err := resolve.OpenSession(flags.cacheDir)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "opening session")
	}

	return reg, cfg, sess, func() {
		if cerr := sess.Close(); cerr != nil {
			errLogger.Println(cerr)
		}
	}, nil
}
