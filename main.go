package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the real entry point. Using a separate function ensures the
// deferred history-store close executes even on error paths, unlike os.Exit
// which skips it.
func run() error {
	opts := DefaultOptions()

	flag.StringVar(&opts.DiffPath, "diff", "", "JSON file with per-path diff records")
	flag.StringVar(&opts.FSFile, "fs-file", "", "Function summary file (reserved, CTU mode)")
	flag.BoolVar(&opts.PrintLoc, "loc", false, "Append <start>-<end> to emitted names")
	flag.BoolVar(&opts.ClassLevelTypeChange, "class", true, "Enable class-level type-change propagation (reserved)")
	flag.BoolVar(&opts.FieldLevelTypeChange, "field", false, "Enable field-level type-change propagation (reserved)")
	flag.BoolVar(&opts.DumpCG, "dump-cg", false, "Emit the reverse call graph")
	flag.BoolVar(&opts.DumpToFile, "dump-file", true, "Emit to sidecar files instead of stdout")
	flag.BoolVar(&opts.DumpUSR, "dump-usr", false, "Emit unified symbol names instead of printable names")
	flag.BoolVar(&opts.DumpANR, "dump-anr", false, "Emit affected-node line ranges")
	flag.BoolVar(&opts.CTU, "ctu", false, "Enable cross-TU considerations (reserved)")
	flag.StringVar(&opts.RFFile, "rf-file", "", "Override path for reanalyze-function output")
	flag.StringVar(&opts.CppcheckRFFile, "cppcheck-rf-file", "", "Emit reanalyze set in Cppcheck format")
	flag.StringVar(&opts.GCCRFFile, "gcc-rf-file", "", "Emit reanalyze set in GCC format")
	flag.StringVar(&opts.FilePath, "file-path", "", "Original source path (pre-preprocess)")
	flag.StringVar(&opts.DumpDBPath, "dump-db", "", "Append a run summary row to this sqlite history store")
	verbose := flag.Bool("verbose", false, "Print detailed progress")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reanalyze [flags] <source.go> [<source.go> ...]\n\n")
		fmt.Fprintf(os.Stderr, "Computes, for each given Go source file's translation unit, the set of\n")
		fmt.Fprintf(os.Stderr, "function definitions that must be re-analyzed after a diff.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return fmt.Errorf("expected at least 1 source path, got %d", flag.NArg())
	}

	prog := NewProgress(*verbose)

	var hist *HistoryStore
	if opts.DumpDBPath != "" {
		h, err := OpenHistoryStore(opts.DumpDBPath)
		if err != nil {
			return fmt.Errorf("opening history store: %w", err)
		}
		defer h.Close()
		hist = h
	}

	for _, arg := range flag.Args() {
		mainFile, err := filepath.Abs(arg)
		if err != nil {
			prog.Log("invalid source path %q: %v", arg, err)
			continue
		}
		prog.Verbose("analyzing %s", mainFile)

		summary, err := RunAndSummarize(opts, mainFile, prog)
		if err != nil {
			prog.Log("analyzing %s: %v", mainFile, err)
			continue
		}
		if hist != nil && summary != nil {
			if err := hist.Record(mainFile, summary); err != nil {
				prog.Log("recording history for %s: %v", mainFile, err)
			}
		}
	}

	return nil
}
