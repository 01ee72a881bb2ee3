// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basisdep/basis/resolve"
)

const (
	successChar = "✓"
	failChar    = "✗"
)

func newTreeCmd(flags *rootFlags) *cobra.Command {
	var aliasKeys []string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the BFS expansion trace as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, cfg, sess, closeSession, err := setup(flags)
			if err != nil {
				return err
			}
			defer closeSession()

			basis, err := resolve.CalcBasis(context.Background(), reg, sess, cfg, aliasKeys,
				resolve.ResolveArgs{Threads: flags.threads, Trace: true}, resolve.ClasspathArgs{})
			if err != nil {
				return err
			}

			printTrace(cmd.OutOrStdout(), basis.Trace)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&aliasKeys, "alias", nil, "alias key to combine into the resolve (repeatable)")
	return cmd
}

func printTrace(w io.Writer, trace *resolve.TraceLog) {
	if trace == nil {
		return
	}
	for _, e := range trace.Entries {
		glyph := successChar
		if !e.Include {
			glyph = failChar
		}
		prefix := strings.Repeat("| ", len(e.Path))
		summary := string(e.Lib)
		if e.UseCoord != nil {
			summary = fmt.Sprintf("%s@%s", e.Lib, e.CoordID)
		}
		fmt.Fprintf(w, "%s%s %s (%s)\n", prefix, glyph, summary, e.Reason)
	}
}
