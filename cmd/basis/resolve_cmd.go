// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basisdep/basis/resolve"
)

func newResolveCmd(flags *rootFlags) *cobra.Command {
	var aliasKeys []string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the deps file and print the selected library versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, cfg, sess, closeSession, err := setup(flags)
			if err != nil {
				return err
			}
			defer closeSession()

			basis, err := resolve.CalcBasis(context.Background(), reg, sess, cfg, aliasKeys,
				resolve.ResolveArgs{Threads: flags.threads}, resolve.ClasspathArgs{})
			if err != nil {
				return err
			}

			for _, lib := range sortedLibs(basis.Libs) {
				entry := basis.Libs[lib]
				ext, err := reg.Lookup(entry.Coord.Tag())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", lib, ext.CoordSummary(lib, entry.Coord))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&aliasKeys, "alias", nil, "alias key to combine into the resolve (repeatable)")
	return cmd
}

func sortedLibs(lm resolve.LibMap) []resolve.Lib {
	libs := make([]resolve.Lib, 0, len(lm))
	for lib := range lm {
		libs = append(libs, lib)
	}
	for i := 1; i < len(libs); i++ {
		for j := i; j > 0 && libs[j-1] > libs[j]; j-- {
			libs[j-1], libs[j] = libs[j], libs[j-1]
		}
	}
	return libs
}
