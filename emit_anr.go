package main

import (
	"fmt"
	"io"
	"sort"
)

// EmitANR writes affected-node ranges (spec.md §6, `<main>.anr`): per file, a
// header `<path>:` then a single line of `<start>,<end>;` entries. AN is the
// union of TaintDecls and the definitions of FunctionsChanged (spec.md §3);
// decls in system headers/vendored files are excluded (spec.md §4.1 edge
// case) even though they remain eligible RCG nodes.
func EmitANR(w io.Writer, v *VisitorState, table *DeclTable) error {
	byFile := make(map[string][]Range)

	an := make(map[DeclId]struct{}, len(v.AN))
	for id := range v.AN {
		an[id] = struct{}{}
	}
	for id := range v.TaintDecls {
		an[id] = struct{}{}
	}

	for id := range an {
		decl := table.ById(id)
		if decl == nil || !decl.SourceRange.Valid() {
			continue
		}
		if isSystemFile(decl.File) {
			continue
		}
		byFile[decl.File] = append(byFile[decl.File], decl.SourceRange)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, f := range files {
		ranges := byFile[f]
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
		if _, err := fmt.Fprintf(w, "%s:\n", f); err != nil {
			return err
		}
		for _, r := range ranges {
			if _, err := fmt.Fprintf(w, "%d,%d;", r.Start, r.End); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
