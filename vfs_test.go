package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vfsFixtureSrc = `package fixture

type Greeter interface {
	Greet() string
}

type English struct{}

func (English) Greet() string { return "hello" }

type French struct{}

func (French) Greet() string { return "bonjour" }
`

func TestBuildInterfaceTable_LinksInterfaceToEachImplementation(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": vfsFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	BuildInterfaceTable(tu, table)

	ifaceMethod := declByName(table, "fixture.Greeter.Greet")
	english := declByName(table, "fixture.English.Greet")
	french := declByName(table, "fixture.French.Greet")
	require.NotNil(t, ifaceMethod)
	require.NotNil(t, english)
	require.NotNil(t, french)

	assert.True(t, ifaceMethod.IsVirtual)
	assert.True(t, english.IsVirtual)
	assert.True(t, french.IsVirtual)

	assert.Contains(t, ifaceMethod.OverriddenMethods, english.Id)
	assert.Contains(t, ifaceMethod.OverriddenMethods, french.Id)
	assert.Contains(t, english.OverriddenMethods, ifaceMethod.Id)
}

const vfsEmbeddedFixtureSrc = `package fixture

type Reader interface {
	Read() string
}

type ReadCloser interface {
	Reader
	Close()
}

type File struct{}

func (File) Read() string { return "data" }
func (File) Close()       {}
`

// TestBuildInterfaceTable_LinksThroughEmbeddedInterface covers spec.md's
// "transitively through embedded interfaces" clause: ReadCloser gets Read
// from the embedded Reader (go/types gives both the same *types.Func, so
// there is one Reader.Read record), and File's Read must be linked to it.
func TestBuildInterfaceTable_LinksThroughEmbeddedInterface(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": vfsEmbeddedFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	BuildInterfaceTable(tu, table)

	readerRead := declByName(table, "fixture.Reader.Read")
	fileRead := declByName(table, "fixture.File.Read")
	require.NotNil(t, readerRead)
	require.NotNil(t, fileRead)
	assert.Contains(t, readerRead.OverriddenMethods, fileRead.Id)
}

func TestComputeAffectedVFs_ChangedOverrideMarksWholeChain(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": vfsFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	g := BuildReverseCallGraph(tu, table)
	BuildInterfaceTable(tu, table)

	english := declByName(table, "fixture.English.Greet")
	require.NotNil(t, english)

	// Mark only English.Greet's own source line as changed.
	dlm := &DiffLineManager{record: DiffRecord{
		Status: StatusRanges,
		Ranges: []LineRange{{StartLine: english.SourceRange.Start, Count: 1}},
	}}

	affected := ComputeAffectedVFs(g, table, dlm)

	ifaceMethod := declByName(table, "fixture.Greeter.Greet")
	french := declByName(table, "fixture.French.Greet")
	require.NotNil(t, ifaceMethod)
	require.NotNil(t, french)

	assert.Contains(t, affected, english.Id)
	assert.Contains(t, affected, ifaceMethod.Id, "the interface declaration shares English's override chain")
	assert.Contains(t, affected, french.Id, "a sibling override shares the same chain even though it wasn't itself edited")
}

func TestComputeAffectedVFs_NoChangeYieldsEmptySet(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": vfsFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	g := BuildReverseCallGraph(tu, table)
	BuildInterfaceTable(tu, table)

	dlm := &DiffLineManager{record: NoChangeDiff()}
	affected := ComputeAffectedVFs(g, table, dlm)
	assert.Empty(t, affected)
}
