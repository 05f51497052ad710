package main

import (
	"fmt"
	"go/types"
	"io"
)

// EmitGCC writes the reanalyze set in GCC format (spec.md §6): one
// `<qualified-name>(<arity>)` per line, in propagation discovery order.
func EmitGCC(w io.Writer, reanalyze []DeclId, table *DeclTable) error {
	for _, id := range reanalyze {
		decl := table.ById(id)
		if decl == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s(%d)\n", decl.Name, arityOf(decl)); err != nil {
			return err
		}
	}
	return nil
}

func arityOf(decl *DeclRecord) int {
	fn, ok := decl.Object.(*types.Func)
	if !ok {
		return 0
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return 0
	}
	return sig.Params().Len()
}
