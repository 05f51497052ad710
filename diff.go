package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LineRange is one (startLine, count) diff entry (spec.md §3, DiffRecord).
// count == 0 denotes a deletion after startLine, decoded to the single line
// [startLine+1, startLine+1] (spec.md §3, §8 scenario S5).
type LineRange struct {
	StartLine int
	Count     int
}

// DiffStatus distinguishes the three states spec.md's DiffRecord can take:
// NewFile, NoChange, or a concrete sorted range list.
type DiffStatus int

const (
	StatusRanges DiffStatus = iota
	StatusNewFile
	StatusNoChange
)

// DiffRecord is a per-file diff artifact (spec.md §3). Ranges must be sorted
// ascending by StartLine and non-overlapping; callers that build one by hand
// (tests) are responsible for that invariant, matching the original clang
// tool's contract in DiffLineManager.h.
type DiffRecord struct {
	Status DiffStatus
	Ranges []LineRange
}

// UnmarshalJSON decodes one entry of the diff JSON format (spec.md §6): a
// bare integer means "new file" (conventionally 1), an array of
// [startLine, count] pairs means a concrete diff.
func (d *DiffRecord) UnmarshalJSON(data []byte) error {
	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		d.Status = StatusNewFile
		d.Ranges = nil
		return nil
	}

	var pairs [][2]int
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("diff entry is neither an int nor a [][2]int: %w", err)
	}
	d.Status = StatusRanges
	d.Ranges = make([]LineRange, len(pairs))
	for i, p := range pairs {
		d.Ranges[i] = LineRange{StartLine: p[0], Count: p[1]}
	}
	if len(d.Ranges) == 0 {
		d.Status = StatusNoChange
	}
	sort.Slice(d.Ranges, func(i, j int) bool { return d.Ranges[i].StartLine < d.Ranges[j].StartLine })
	return nil
}

// NoChangeDiff returns the DiffRecord used when no diff entry exists for a
// file — spec.md §7, "treat as no change".
func NoChangeDiff() DiffRecord { return DiffRecord{Status: StatusNoChange} }

// DiffSet is the parsed form of the --diff JSON file (spec.md §6): path ->
// DiffRecord.
type DiffSet map[string]DiffRecord

// LoadDiffSet reads and parses the --diff JSON file. Per spec.md §7, a
// missing or unreadable path, or malformed JSON, is logged and treated as
// "no diff available" rather than a fatal error.
func LoadDiffSet(path string, prog *Progress) DiffSet {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		prog.Log("diff file %q unreadable: %v; treating as no-change", path, err)
		return nil
	}
	var raw map[string]DiffRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		prog.Log("diff file %q malformed JSON: %v; treating as no-change", path, err)
		return nil
	}
	return DiffSet(raw)
}

// decodedRange expands a LineRange's deletion-marker encoding (count == 0)
// into the concrete [start, end] line pair it denotes.
func (r LineRange) decodedRange() (start, end int) {
	if r.Count == 0 {
		return r.StartLine + 1, r.StartLine + 1
	}
	return r.StartLine, r.StartLine + r.Count - 1
}

func rangesIntersect(aStart, aEnd, bStart, bEnd int) bool {
	return aStart <= bEnd && bStart <= aEnd
}

// DiffLineManager answers line- and declaration-level change queries
// against one file's DiffRecord (spec.md §4.1).
type DiffLineManager struct {
	record DiffRecord
}

// NewDiffLineManager builds a DLM for the translation unit's main file.
// diffs may be nil (no diff file available); the main file's entry is
// looked up by absolute path, defaulting to NoChange when absent (spec.md
// §7, "Missing diff entry for main file").
func NewDiffLineManager(diffs DiffSet, mainFile string) *DiffLineManager {
	if diffs == nil {
		return &DiffLineManager{record: NoChangeDiff()}
	}
	if rec, ok := diffs[mainFile]; ok {
		return &DiffLineManager{record: rec}
	}
	return &DiffLineManager{record: NoChangeDiff()}
}

func (d *DiffLineManager) IsNewFile() bool   { return d.record.Status == StatusNewFile }
func (d *DiffLineManager) IsNoChange() bool  { return d.record.Status == StatusNoChange }

// IsChangedLine reports whether [l1, l2] intersects any changed range
// (spec.md §4.1). NewFile is always true, NoChange is always false.
// Otherwise a binary search locates the last range with StartLine <= l2,
// and scans backward from there since earlier ranges may still extend far
// enough to intersect (deletion markers, multi-line inserts).
func (d *DiffLineManager) IsChangedLine(l1, l2 int) bool {
	switch d.record.Status {
	case StatusNewFile:
		return true
	case StatusNoChange:
		return false
	}
	ranges := d.record.Ranges
	// Find the greatest index whose StartLine <= l2 (spec.md's "binary
	// search the range list for the greatest startLine <= l2").
	lo, hi := 0, len(ranges)-1
	idx := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if ranges[mid].StartLine <= l2 {
			idx = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	for i := idx; i >= 0; i-- {
		start, end := ranges[i].decodedRange()
		if rangesIntersect(l1, l2, start, end) {
			return true
		}
		// Once a range's decoded end falls entirely before l1 with enough
		// margin that no earlier (smaller StartLine) range could still
		// reach l1, we could stop; but ranges may have arbitrarily large
		// Count, so a strict "smaller StartLine implies smaller End" bound
		// does not hold. Scan the full prefix conservatively.
	}
	return false
}

// StartAndEndLineOfDecl returns the declaration's source range — for
// functions, the definition's range if one exists, else the declaration's
// own range (spec.md §4.1). Returns (Range{}, false) when the location is
// not a spelling location in a file (synthetic/builtin decls).
func (d *DiffLineManager) StartAndEndLineOfDecl(decl *DeclRecord) (Range, bool) {
	if decl == nil || !decl.SourceRange.Valid() {
		return Range{}, false
	}
	return decl.SourceRange, true
}

// IsChangedDecl reports spec.md §4.1's isChangedDecl: IsChangedLine over the
// decl's range, or conservatively true when no range is available.
func (d *DiffLineManager) IsChangedDecl(decl *DeclRecord) bool {
	r, ok := d.StartAndEndLineOfDecl(decl)
	if !ok {
		return true
	}
	return d.IsChangedLine(r.Start, r.End)
}
