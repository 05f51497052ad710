package main

import (
	"fmt"
	"io"
)

// EmitRF writes the newline-separated reanalyze-function list (spec.md §6,
// `<main>.rf`), in propagation discovery order (spec.md §4.5).
func EmitRF(w io.Writer, reanalyze []DeclId, table *DeclTable, opts *Options) error {
	for _, id := range reanalyze {
		decl := table.ById(id)
		if decl == nil {
			continue
		}
		if _, err := fmt.Fprintln(w, displayName(decl, opts.DumpUSR, opts.PrintLoc)); err != nil {
			return err
		}
	}
	return nil
}
