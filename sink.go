package main

import (
	"io"
	"os"
)

// resolveSink opens the destination for one emitter: a sidecar file next to
// mainFile (mainFile+suffix, or override when non-empty) when dumpToFile is
// set, else os.Stdout (spec.md §4.6, "Each emitter may target either a file
// ... or a textual stream"). The returned close func is always safe to call
// and never closes os.Stdout.
func resolveSink(dumpToFile bool, mainFile, suffix, override string, prog *Progress) (io.Writer, func() error, error) {
	if !dumpToFile {
		return os.Stdout, func() error { return nil }, nil
	}
	path := override
	if path == "" {
		path = mainFile + suffix
	}
	f, err := os.Create(path)
	if err != nil {
		// spec.md §7: "Output file open failure ... Log and skip that
		// emitter; other emitters proceed."
		prog.Log("cannot open %q for writing: %v; skipping this output", path, err)
		return nil, func() error { return nil }, err
	}
	return f, f.Close, nil
}
