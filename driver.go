package main

import (
	"fmt"
	"io"
)

// RunSummary mirrors the counts written to the .ics summary (spec.md §6),
// returned to the caller so ambient tooling (the history store, SPEC_FULL.md
// §2) can record a run without re-parsing the emitted sidecar file.
type RunSummary struct {
	NewFile                 bool
	NoChange                bool
	ChangedFunctions        int
	ReanalyzeFunctions      int
	CGNodes                 int
	AffectedVirtualFuncs    int
	AffectedVFIndirectCalls int
	FunctionPointerTypes    int
	AffectedFPIndirectCalls int
}

// RunAndSummarize runs the full pipeline for mainFile and returns its
// RunSummary. Returns (nil, nil) when the front end reported a parse error
// (spec.md §4.7: skip analysis, emit nothing, but this is not a failure).
func RunAndSummarize(opts *Options, mainFile string, prog *Progress) (*RunSummary, error) {
	tu, err := LoadTranslationUnit(mainFile, prog)
	if err != nil {
		return nil, err
	}
	if tu.ParseErr != nil {
		prog.Log("skipping %s: %v", mainFile, tu.ParseErr)
		return nil, nil
	}

	diffs := LoadDiffSet(opts.DiffPath, prog)
	dlm := NewDiffLineManager(diffs, mainFile)

	prog.Stage("collect")
	table := CollectDecls(tu)

	prog.Stage("vfs")
	BuildInterfaceTable(tu, table)
	rcg := BuildReverseCallGraph(tu, table)
	affectedVFs := ComputeAffectedVFs(rcg, table, dlm)

	prog.Stage("visitor")
	v := NewVisitorState(tu, table, dlm, rcg, affectedVFs)
	if file := tu.FileOf(mainFile); file != nil {
		v.Run(file)
	}

	prog.Stage("propagate")
	reanalyze := PropagateReanalysis(rcg, v.FunctionsChanged)

	prog.Stage("emit")
	if err := emitAll(tu, opts, mainFile, dlm, rcg, table, v, reanalyze, prog); err != nil {
		return nil, err
	}

	return &RunSummary{
		NewFile:                 dlm.IsNewFile(),
		NoChange:                dlm.IsNoChange(),
		ChangedFunctions:        len(v.FunctionsChanged),
		ReanalyzeFunctions:      len(reanalyze),
		CGNodes:                 rcg.Size(),
		AffectedVirtualFuncs:    len(affectedVFs),
		AffectedVFIndirectCalls: v.AffectedIndirectCallByVF,
		FunctionPointerTypes:    len(v.TypesMayUsedByFP),
		AffectedFPIndirectCalls: v.AffectedIndirectCallByFP,
	}, nil
}

// emitAll dispatches to the six emitters per spec.md §4.6's short-circuit
// rules: NoChange emits only the summary; NewFile emits the summary and
// skips CG/reanalyze outputs; otherwise the full set runs, gated by which
// --dump-* flags are set.
func emitAll(tu *TranslationUnit, opts *Options, mainFile string, dlm *DiffLineManager, rcg *ReverseCallGraph, table *DeclTable, v *VisitorState, reanalyze []DeclId, prog *Progress) error {
	if err := emitOne(opts, mainFile, ".ics", "", prog, func(w io.Writer) error {
		return EmitSummary(w, dlm, rcg, v, reanalyze)
	}); err != nil {
		return fmt.Errorf("emitting summary: %w", err)
	}

	if dlm.IsNoChange() || dlm.IsNewFile() {
		return nil
	}

	if opts.DumpCG {
		if err := emitOne(opts, mainFile, ".cg", "", prog, func(w io.Writer) error {
			return EmitCG(w, rcg, table, opts)
		}); err != nil {
			prog.Log("cg emitter failed: %v", err)
		}
	}

	if err := emitOne(opts, mainFile, ".rf", opts.RFFile, prog, func(w io.Writer) error {
		return EmitRF(w, reanalyze, table, opts)
	}); err != nil {
		prog.Log("rf emitter failed: %v", err)
	}

	if opts.DumpANR {
		if err := emitOne(opts, mainFile, ".anr", "", prog, func(w io.Writer) error {
			return EmitANR(w, v, table)
		}); err != nil {
			prog.Log("anr emitter failed: %v", err)
		}
	}

	if opts.CppcheckRFFile != "" {
		if err := emitOne(opts, mainFile, "", opts.CppcheckRFFile, prog, func(w io.Writer) error {
			return EmitCppcheck(w, tu, reanalyze, table)
		}); err != nil {
			prog.Log("cppcheck emitter failed: %v", err)
		}
	}

	if opts.GCCRFFile != "" {
		if err := emitOne(opts, mainFile, "", opts.GCCRFFile, prog, func(w io.Writer) error {
			return EmitGCC(w, reanalyze, table)
		}); err != nil {
			prog.Log("gcc emitter failed: %v", err)
		}
	}

	return nil
}

// emitOne opens the sink for one emitter (file or stream, spec.md §4.6) and
// runs fn against it, closing the sink afterward. Open failure is logged by
// resolveSink and skipped per spec.md §7: emitOne then returns nil without
// running fn, so other emitters still proceed.
func emitOne(opts *Options, mainFile, suffix, override string, prog *Progress, fn func(w io.Writer) error) error {
	w, closeFn, err := resolveSink(opts.DumpToFile, mainFile, suffix, override, prog)
	if err != nil {
		return nil
	}
	defer closeFn()
	return fn(w)
}
