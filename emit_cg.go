package main

import (
	"fmt"
	"io"
)

// EmitCG writes the reverse call graph per spec.md §4.6/§6: per node, a
// header line with the callee's name (and optional location), then "[",
// then one line per caller, then "]". Nodes are emitted in ascending DeclId
// order (excluding the sentinel root) for reproducibility (spec.md §8
// invariant 7, idempotence).
func EmitCG(w io.Writer, g *ReverseCallGraph, table *DeclTable, opts *Options) error {
	var ids []DeclId
	for id := range allNodeIds(g) {
		if id == rootDeclId {
			continue
		}
		ids = append(ids, id)
	}
	sortDeclIds(ids)

	for _, id := range ids {
		decl := table.ById(id)
		if decl == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n[\n", displayName(decl, opts.DumpUSR, opts.PrintLoc)); err != nil {
			return err
		}
		node := g.GetNode(id)
		callers := append([]DeclId(nil), node.Callers()...)
		sortDeclIds(callers)
		for _, callerId := range callers {
			line := string(callerId)
			if callerId == rootDeclId {
				line = "<root>"
			} else if callerDecl := table.ById(callerId); callerDecl != nil {
				line = displayName(callerDecl, opts.DumpUSR, opts.PrintLoc)
			}
			if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "]\n"); err != nil {
			return err
		}
	}
	return nil
}

func allNodeIds(g *ReverseCallGraph) map[DeclId]struct{} {
	out := make(map[DeclId]struct{})
	g.ReversePostorder(func(id DeclId) { out[id] = struct{}{} })
	return out
}
