package main

import (
	"fmt"
	"go/types"
	"io"
	"sort"
)

// EmitCppcheck writes the reanalyze set in Cppcheck format (spec.md §6): a
// file-path header `<origin>:`, then one unqualified function name per line,
// grouped by the decl's macro-expansion origin file (spec.md §4.1
// `originFileAndLineOfDecl`).
func EmitCppcheck(w io.Writer, tu *TranslationUnit, reanalyze []DeclId, table *DeclTable) error {
	byOrigin := make(map[string][]string)
	var order []string

	for _, id := range reanalyze {
		decl := table.ById(id)
		if decl == nil {
			continue
		}
		origin, _, ok := OriginFileAndLineOfDecl(tu.Fset, decl)
		if !ok {
			continue
		}
		if _, seen := byOrigin[origin]; !seen {
			order = append(order, origin)
		}
		byOrigin[origin] = append(byOrigin[origin], unqualifiedFuncName(decl))
	}
	sort.Strings(order)

	for _, origin := range order {
		if _, err := fmt.Fprintf(w, "%s:\n", origin); err != nil {
			return err
		}
		names := byOrigin[origin]
		for _, n := range names {
			if _, err := fmt.Fprintln(w, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func unqualifiedFuncName(decl *DeclRecord) string {
	if fn, ok := decl.Object.(*types.Func); ok {
		return fn.Name()
	}
	return decl.Name
}
