package main

import (
	"fmt"
	"os"
	"time"
)

// Progress reports reanalyze-pipeline progress to stderr with elapsed time,
// the diagnostic channel every phase of driver.go's two-pass order (spec.md
// §9) writes through.
type Progress struct {
	start   time.Time
	verbose bool
}

// NewProgress creates a progress reporter.
func NewProgress(verbose bool) *Progress {
	return &Progress{start: time.Now(), verbose: verbose}
}

// Log prints a progress message with elapsed time prefix.
func (p *Progress) Log(format string, args ...any) {
	elapsed := time.Since(p.start)
	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "[%02d:%02d] %s\n", mins, secs, msg)
}

// Verbose prints only when verbose mode is enabled.
func (p *Progress) Verbose(format string, args ...any) {
	if p.verbose {
		p.Log(format, args...)
	}
}

// Stage announces the start of one named phase of the two-pass pipeline
// (collect, vfs, visitor, propagate, emit), verbose-only, so a
// --verbose run shows which phase a slow translation unit is stuck in.
func (p *Progress) Stage(name string) {
	p.Verbose("stage: %s", name)
}
