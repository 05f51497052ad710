package main

import (
	"fmt"
	"io"
)

// EmitSummary writes the incremental summary (spec.md §6, `<main>.ics`):
// empty for NoChange, the literal "new file\n" for NewFile, else a
// key:value block of set-size counts.
func EmitSummary(w io.Writer, dlm *DiffLineManager, g *ReverseCallGraph, v *VisitorState, reanalyze []DeclId) error {
	if dlm.IsNoChange() {
		return nil
	}
	if dlm.IsNewFile() {
		_, err := fmt.Fprint(w, "new file\n")
		return err
	}

	lines := []struct {
		key string
		n   int
	}{
		{"changed functions", len(v.FunctionsChanged)},
		{"reanalyze functions", len(reanalyze)},
		{"cg nodes", g.Size()},
		{"affected virtual functions", len(v.affectedVFs)},
		{"affected vf indirect calls", v.AffectedIndirectCallByVF},
		{"function pointer types", len(v.TypesMayUsedByFP)},
		{"affected fp indirect calls", v.AffectedIndirectCallByFP},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %d\n", l.key, l.n); err != nil {
			return err
		}
	}
	return nil
}
