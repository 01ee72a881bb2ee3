// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basisdep/basis/resolve"
)

func newClasspathCmd(flags *rootFlags) *cobra.Command {
	var aliasKeys []string
	var classpathOverrides []string
	var extraPaths []string

	cmd := &cobra.Command{
		Use:   "classpath",
		Short: "Resolve the deps file and print the assembled classpath",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, cfg, sess, closeSession, err := setup(flags)
			if err != nil {
				return err
			}
			defer closeSession()

			overrides, err := parseClasspathOverrides(classpathOverrides)
			if err != nil {
				return err
			}

			basis, err := resolve.CalcBasis(context.Background(), reg, sess, cfg, aliasKeys,
				resolve.ResolveArgs{Threads: flags.threads},
				resolve.ClasspathArgs{
					ExtraPaths:         parseExtraPaths(extraPaths),
					ClasspathOverrides: overrides,
				})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), basis.Classpath)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&aliasKeys, "alias", nil, "alias key to combine into the resolve (repeatable)")
	cmd.Flags().StringSliceVar(&classpathOverrides, "classpath-override", nil, "lib=path override (repeatable)")
	cmd.Flags().StringSliceVar(&extraPaths, "extra-path", nil, "literal path, or :alias to chase another alias's paths (repeatable)")
	return cmd
}

func parseClasspathOverrides(raw []string) (map[resolve.Lib]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[resolve.Lib]string, len(raw))
	for _, entry := range raw {
		lib, path, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, &resolve.InputError{Reason: fmt.Sprintf("--classpath-override %q: expected lib=path", entry)}
		}
		out[resolve.Lib(lib)] = path
	}
	return out, nil
}

func parseExtraPaths(raw []string) []resolve.PathEntry {
	out := make([]resolve.PathEntry, 0, len(raw))
	for _, r := range raw {
		if strings.HasPrefix(r, ":") {
			out = append(out, resolve.PathEntry{AliasRef: strings.TrimPrefix(r, ":")})
		} else {
			out = append(out, resolve.PathEntry{Literal: r})
		}
	}
	return out
}
