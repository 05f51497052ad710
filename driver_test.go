package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const driverFixtureSrc = `package fixture

func leaf() int { return 1 }

func helper() int {
	return leaf()
}

func Run() int {
	return helper()
}
`

func writeDiffFile(t *testing.T, dir string, diffs map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, "diff.json")
	data, err := json.Marshal(diffs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunAndSummarize_PropagatesChangeThroughWholeCallChain(t *testing.T) {
	dir := writeFixtureModule(t, map[string]string{"main.go": driverFixtureSrc})
	mainFile := filepath.Join(dir, "main.go")

	diffPath := writeDiffFile(t, dir, map[string]any{
		mainFile: [][2]int{{3, 1}}, // line 3: "func leaf() int { return 1 }"
	})

	opts := DefaultOptions()
	opts.DiffPath = diffPath
	opts.DumpToFile = true
	opts.DumpCG = true
	opts.DumpANR = true

	prog := NewProgress(false)
	summary, err := RunAndSummarize(opts, mainFile, prog)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.False(t, summary.NewFile)
	assert.False(t, summary.NoChange)
	assert.GreaterOrEqual(t, summary.ChangedFunctions, 1)
	assert.GreaterOrEqual(t, summary.ReanalyzeFunctions, summary.ChangedFunctions)
	assert.Positive(t, summary.CGNodes)

	for _, suffix := range []string{".ics", ".cg", ".rf", ".anr"} {
		_, err := os.Stat(mainFile + suffix)
		assert.NoError(t, err, "expected %s sidecar to be written", suffix)
	}
}

func TestRunAndSummarize_NoChangeShortCircuitsToSummaryOnly(t *testing.T) {
	dir := writeFixtureModule(t, map[string]string{"main.go": driverFixtureSrc})
	mainFile := filepath.Join(dir, "main.go")

	opts := DefaultOptions()
	opts.DumpToFile = true
	opts.DumpCG = true

	prog := NewProgress(false)
	summary, err := RunAndSummarize(opts, mainFile, prog)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.True(t, summary.NoChange)

	_, err = os.Stat(mainFile + ".ics")
	assert.NoError(t, err, "summary is always written")
	_, err = os.Stat(mainFile + ".cg")
	assert.Error(t, err, "NoChange must short-circuit every other emitter")
}

func TestRunAndSummarize_IsIdempotentGivenTheSameDiff(t *testing.T) {
	dir := writeFixtureModule(t, map[string]string{"main.go": driverFixtureSrc})
	mainFile := filepath.Join(dir, "main.go")
	diffPath := writeDiffFile(t, dir, map[string]any{
		mainFile: [][2]int{{3, 1}},
	})

	opts := DefaultOptions()
	opts.DiffPath = diffPath
	opts.DumpToFile = true

	prog := NewProgress(false)
	first, err := RunAndSummarize(opts, mainFile, prog)
	require.NoError(t, err)
	second, err := RunAndSummarize(opts, mainFile, prog)
	require.NoError(t, err)

	assert.Equal(t, first.ReanalyzeFunctions, second.ReanalyzeFunctions)
	assert.Equal(t, first.ChangedFunctions, second.ChangedFunctions)
}
