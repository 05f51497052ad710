package main

// Options is the parsed CLI configuration, the Go analog of the
// driver-level flags spec.md §6 specifies. Fields are grouped in the same
// order as the flag table.
type Options struct {
	DiffPath string // --diff
	FSFile   string // --fs-file (reserved, CTU mode; never read)

	PrintLoc bool // --loc

	ClassLevelTypeChange bool // --class (reserved, inert per spec.md §9)
	FieldLevelTypeChange bool // --field (reserved, inert per spec.md §9)

	DumpCG     bool // --dump-cg
	DumpToFile bool // --dump-file
	DumpUSR    bool // --dump-usr
	DumpANR    bool // --dump-anr

	CTU bool // --ctu (reserved, never read; cross-TU mode is out of scope)

	RFFile         string // --rf-file
	CppcheckRFFile string // --cppcheck-rf-file
	GCCRFFile      string // --gcc-rf-file

	FilePath string // --file-path, original pre-preprocess source path

	DumpDBPath string // --dump-db (ambient-additional, SPEC_FULL.md §2)
}

// DefaultOptions returns the flag defaults from spec.md §6.
func DefaultOptions() *Options {
	return &Options{
		ClassLevelTypeChange: true,
		DumpToFile:           true,
	}
}
